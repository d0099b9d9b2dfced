package format_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/format"
)

// update rewrites the golden files instead of comparing.
// Usage: go test ./pkg/format -run TestGolden -update.
var update = flag.Bool("update", false, "update golden files")

const goldenSuffix = ".golden.rs"

// TestGolden formats every testdata/golden/<name>.rs and compares the
// result with <name>.golden.rs. The golden file itself must be a fixed
// point of the formatter.
func TestGolden(t *testing.T) {
	inputs, err := filepath.Glob(filepath.Join("testdata", "golden", "*.rs"))
	require.NoError(t, err)

	for _, input := range inputs {
		if strings.HasSuffix(input, goldenSuffix) {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(input), ".rs")
		golden := strings.TrimSuffix(input, ".rs") + goldenSuffix

		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(input)
			require.NoError(t, err)

			res, err := format.Format(filepath.Base(input), string(src), nil)
			require.NoError(t, err)

			if *update {
				require.NoError(t, os.WriteFile(golden, []byte(res.Text), 0o644))
				return
			}

			want, err := os.ReadFile(golden)
			require.NoError(t, err)
			if diff := cmp.Diff(string(want), res.Text); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", golden, diff)
			}

			again, err := format.Format(filepath.Base(golden), string(want), nil)
			require.NoError(t, err)
			if diff := cmp.Diff(string(want), again.Text); diff != "" {
				t.Errorf("golden file is not stable (-want +got):\n%s", diff)
			}
		})
	}
}
