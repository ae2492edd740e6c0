package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magv/rat2c/internal/ir"
)

// The canonical end-to-end check: for x+y*x^2+z*x^3 the engine returns an
// already-minimal Horner-style program. The pipeline must pass it through
// with no statement added or removed, keep exactly two scratch slots, and
// end in a single result assignment.
func TestRun_MinimalEngineProgramPassesThrough(t *testing.T) {
	fragments := []ir.Fragment{{Name: "frag0", Body: "x+y*x^2+z*x^3"}}
	engineOut := mustParse(t, "tmp1=x*z;tmp2=y+tmp1;tmp1=x*tmp2;tmp2=1+tmp1;frag0=x*tmp2;")
	results := mustParse(t, "res0=frag0;")

	final, stats, err := Run(fragments, []ir.Program{engineOut}, results)
	require.NoError(t, err)
	assert.Equal(t,
		"tmp0=x*z;tmp1=y+tmp0;tmp0=x*tmp1;tmp1=1+tmp0;res0=x*tmp1;",
		final.String())
	assert.Equal(t, 2, stats.Slots)
	assert.Equal(t, 5, stats.Final, "already-minimal input gains no statements")
}

func TestRun_EachScratchNameDefinedBeforeUse(t *testing.T) {
	fragments := []ir.Fragment{
		{Name: "frag0", Body: "a+b"},
		{Name: "frag1", Body: "frag0*frag0+c"},
	}
	programs := []ir.Program{
		mustParse(t, "frag0=a+b;"),
		mustParse(t, "Z1_=frag0*frag0;frag1=Z1_+c;"),
	}
	results := mustParse(t, "res0=frag1;")

	final, _, err := Run(fragments, programs, results)
	require.NoError(t, err)

	defined := map[string]bool{"a": true, "b": true, "c": true}
	for _, stmt := range final {
		for _, name := range ir.ScanNames(stmt.Expr) {
			assert.True(t, defined[name], "%s used before assignment in %s", name, final.String())
		}
		defined[stmt.Target] = true
	}
}

func TestRun_CrossFragmentCSE(t *testing.T) {
	// Two fragments compute a*b internally; global CSE must keep only the
	// first computation.
	fragments := []ir.Fragment{{Name: "frag0"}, {Name: "frag1"}}
	programs := []ir.Program{
		mustParse(t, "Z1_=a*b;frag0=Z1_+1;"),
		mustParse(t, "Z1_=a*b;frag1=Z1_+2;"),
	}
	results := mustParse(t, "res0=frag0*frag1;")

	final, _, err := Run(fragments, programs, results)
	require.NoError(t, err)
	assert.Equal(t, 1, countStatements(final, "a*b"),
		"a*b computed once across fragments: %s", final.String())
}

func TestRun_PowerExpansionFeedsCSE(t *testing.T) {
	fragments := []ir.Fragment{{Name: "frag0"}}
	programs := []ir.Program{mustParse(t, "Z1_=pow(x,2);Z2_=pow(x,2);frag0=Z1_+Z2_;")}
	results := mustParse(t, "res0=frag0;")

	final, _, err := Run(fragments, programs, results)
	require.NoError(t, err)
	assert.Equal(t, 1, countStatements(final, "x*x"),
		"expanded squares must deduplicate: %s", final.String())
}

func TestRun_Determinism(t *testing.T) {
	fragments := []ir.Fragment{{Name: "frag0"}, {Name: "frag1"}}
	programs := []ir.Program{
		mustParse(t, "Z1_=a*b;Z2_=Z1_+a;frag0=Z2_*Z2_;"),
		mustParse(t, "Z1_=pow(frag0,4);frag1=Z1_+b;"),
	}
	results := mustParse(t, "res0=frag0;res1=frag1;")

	run := func() string {
		final, _, err := Run(fragments, programs, results)
		require.NoError(t, err)
		return final.String()
	}
	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run(), "pipeline output must be byte-identical across runs")
	}
}

func TestRun_BadExponentAborts(t *testing.T) {
	fragments := []ir.Fragment{{Name: "frag0"}}
	programs := []ir.Program{mustParse(t, "frag0=pow(x,n);")}
	results := mustParse(t, "res0=frag0;")

	_, _, err := Run(fragments, programs, results)
	assert.ErrorIs(t, err, ErrBadExponent)
}
