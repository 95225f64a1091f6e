package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	cli := []string{"-a", "http://localhost:3000/api", "-s", "redis", "-e", "dev.env", "-c=cli.json", "-t", "10", "run"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{name: "config only", args: cli, allowed: []string{"-c", "-config"}, want: []string{"-c=cli.json"}},
		{name: "env only", args: cli, allowed: []string{"-e", "-env"}, want: []string{"-e", "dev.env"}},
		{name: "several kept in order", args: cli, allowed: []string{"-t", "-a"}, want: []string{"-a", "http://localhost:3000/api", "-t", "10"}},
		{name: "nothing allowed", args: cli, allowed: nil, want: []string{}},
		{name: "trailing flag without value", args: []string{"-s", "memory", "-e"}, allowed: []string{"-e"}, want: []string{"-e"}},
		{name: "dash token is not a value", args: []string{"-e", "-s", "sqlite"}, allowed: []string{"-e"}, want: []string{"-e"}},
		{name: "equals value may start with dash", args: []string{"-config=-odd.json"}, allowed: []string{"-config"}, want: []string{"-config=-odd.json"}},
		{name: "repeats preserved", args: []string{"-e", "a.env", "-env", "b.env"}, allowed: []string{"-e", "-env"}, want: []string{"-e", "a.env", "-env", "b.env"}},
		{name: "positional ignored", args: []string{"login", "-l", "debug"}, allowed: []string{"-l"}, want: []string{"-l", "debug"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"credebt"}, args...)
}

func TestJsonConfigFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-c", "a.json", "-s", "memory"}, want: "a.json"},
		{name: "long equals", args: []string{"-config=/etc/credebt.json"}, want: "/etc/credebt.json"},
		{name: "last wins", args: []string{"-c", "a.json", "-config", "b.json"}, want: "b.json"},
		{name: "absent", args: []string{"-a", "http://api"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)
			assert.Equal(t, tt.want, JsonConfigFlags())
		})
	}
}

func TestEnvFileFlags(t *testing.T) {
	withArgs(t, "-c", "cfg.json", "-e", "prod.env")
	assert.Equal(t, "prod.env", EnvFileFlags())

	withArgs(t, "-env", "dev.env")
	assert.Equal(t, "dev.env", EnvFileFlags())

	withArgs(t, "-c", "cfg.json")
	assert.Empty(t, EnvFileFlags())
}
