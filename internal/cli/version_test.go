package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	tests := map[string]struct {
		args []string
		want []string
	}{
		"plain": {
			args: []string{"version", "--plain"},
			want: []string{"autochangelog dev", "commit: unknown", "go: go", "platform: "},
		},
		"pretty": {
			args: []string{"version"},
			want: []string{"autochangelog", "Version", "development build", "Platform"},
		},
		"alias": {
			args: []string{"v", "--plain"},
			want: []string{"autochangelog dev"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolateEnv(t)
			stdout, _, err := executeCommand(t, "", tt.args...)
			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, stdout, s)
			}
		})
	}
}
