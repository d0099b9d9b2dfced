package format_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/comment"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// corpus holds sources whose formatting only moves whitespace and commas,
// so that the token sequence survives every configuration.
//
//nolint:gochecknoglobals // Shared test table.
var corpus = map[string]string{
	"items": `use std::collections::HashMap;

struct Point { x: i32, y: i32 }

enum Shape { Circle(f64), Square { side: f64 } }

impl Point {
    fn new(x: i32, y: i32) -> Self { Point { x, y } }
}
`,
	"lets and binaries": `fn main() {
    let total = first_value + second_value * third_value - fourth_value;
    let ok = left_side_condition && right_side_condition || fallback_condition;
}
`,
	"calls": `fn main() {
    configure(first_argument, second_argument, third_argument, fourth_argument);
    run(config, |event| { handle(event); log(event); });
}
`,
	"control flow": `fn main() {
    if ready { start(); } else if waiting { wait(); } else { stop(); }
    while count < limit { count += step; }
    for item in items { process(item); }
    loop { break; }
}
`,
	"match": `fn classify(n: i32) -> i32 {
    match n {
        0 => zero(),
        1 | 2 => small(n),
        _ => { record(n); large(n) }
    }
}
`,
	"chains": `fn main() {
    let total = values.iter().filter(is_valid).map(convert).fold(start, accumulate);
}
`,
	"comments": `// leading
fn main() {
    // before
    let x = a + b /* keep */ + c; // after
    if c {
        a();
        // trailing
    } else {
        b();
    }
}
`,
	"macros": `fn main() {
    println!("{} {}", first, second);
    let v = vec![1, 2, 3];
    foo!(key => value);
}
`,
}

type namedConfig struct {
	name  string
	apply func(*config.Config)
}

//nolint:gochecknoglobals // Shared test table.
var configMatrix = []namedConfig{
	{"default", func(*config.Config) {}},
	{"max width 40", func(c *config.Config) { c.MaxWidth = 40 }},
	{"max width 40 back", func(c *config.Config) {
		c.MaxWidth = 40
		c.BinopSeparator = config.SeparatorBack
	}},
	{"tab spaces 2", func(c *config.Config) { c.TabSpaces = 2 }},
	{"hard tabs", func(c *config.Config) { c.HardTabs = true }},
	{"trailing comma always", func(c *config.Config) { c.TrailingComma = config.TrailingAlways }},
	{"trailing comma never", func(c *config.Config) { c.TrailingComma = config.TrailingNever }},
}

// tokenTexts lexes src and returns its token texts without commas.
func tokenTexts(t *testing.T, src string) []string {
	t.Helper()

	toks, err := syntax.Lex(syntax.NewFile("test.rs", src))
	require.NoError(t, err)
	texts := make([]string, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == syntax.TokEOF || tok.Text == "," {
			continue
		}
		texts = append(texts, tok.Text)
	}
	return texts
}

func TestFormat_Properties(t *testing.T) {
	for name, src := range corpus {
		for _, nc := range configMatrix {
			t.Run(name+"/"+nc.name, func(t *testing.T) {
				t.Parallel()

				cfg := config.NewConfig()
				nc.apply(cfg)

				res := formatString(t, src, cfg)

				again := formatString(t, res.Text, cfg)
				if diff := cmp.Diff(res.Text, again.Text); diff != "" {
					t.Errorf("formatting is not idempotent (-first +second):\n%s", diff)
				}

				assert.Len(t, comment.Comments(res.Text), len(comment.Comments(src)), "comment count changed")

				if diff := cmp.Diff(tokenTexts(t, src), tokenTexts(t, res.Text)); diff != "" {
					t.Errorf("token sequence changed (-src +formatted):\n%s", diff)
				}
			})
		}
	}
}
