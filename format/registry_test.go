package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry()
	assert.Error(t, err, "empty registry")

	_, err = NewRegistry(MustNew("a", "%Y"), MustNew("a", "%Y-%m"))
	assert.ErrorContains(t, err, "duplicate format id")

	_, err = NewRegistry(TimestampFormat{})
	assert.Error(t, err, "zero format")
}

func TestRegistry_OrderAndLookup(t *testing.T) {
	r := MustRegistry(MustNew("a", "%Y"), MustNew("b", "%Y-%m"), MustNew("c", "%Y-%m-%d"))
	require.Equal(t, 3, r.Len())

	ids := make([]string, 0, r.Len())
	for _, f := range r.Formats() {
		ids = append(ids, f.ID())
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	f, ok := r.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "%Y-%m", f.Pattern())

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_FormatsIsACopy(t *testing.T) {
	r := MustRegistry(MustNew("a", "%Y"), MustNew("b", "%Y-%m"))
	got := r.Formats()
	got[0] = MustNew("z", "%H")
	assert.Equal(t, "a", r.At(0).ID())
}

func TestRegistry_Append(t *testing.T) {
	base := MustRegistry(MustNew("a", "%Y"))
	r, err := base.Append(MustNew("b", "%H:%M"))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 1, base.Len())

	_, err = base.Append(MustNew("a", "%H"))
	assert.Error(t, err)
}

func TestRegistry_Shadowed(t *testing.T) {
	r := MustRegistry(
		MustNew("ymd", "%Y-%m-%d"),
		MustNew("ydm", "%Y-%d-%m"),
		MustNew("hm", "%H:%M"),
		MustNew("ms", "%M:%S"),
		MustNew("hm-utc", "%H:%M%Z"),
	)
	shadows := r.Shadowed()
	require.Len(t, shadows, 2)
	assert.Equal(t, Shadow{Format: "ydm", ShadowBy: "ymd"}, shadows[0])
	assert.Equal(t, Shadow{Format: "ms", ShadowBy: "hm"}, shadows[1])
}

func TestRegistry_ShadowedIgnoresLiteralDifferences(t *testing.T) {
	r := MustRegistry(
		MustNew("dash", "%Y-%m-%d"),
		MustNew("slash", "%Y/%m/%d"),
		MustNew("offset", "%H:%M%:z"),
		MustNew("compact", "%H:%M%z"),
	)
	assert.Empty(t, r.Shadowed())
}

func TestKnownRegistries_NoShadowing(t *testing.T) {
	assert.Empty(t, Default().Shadowed())
	assert.Empty(t, WithPartial().Shadowed())
}

func TestKnownRegistries_PartialFollowsDefault(t *testing.T) {
	def := Default()
	all := WithPartial()
	require.Equal(t, def.Len()+len(Partial()), all.Len())
	for i := 0; i < def.Len(); i++ {
		assert.Equal(t, def.At(i).ID(), all.At(i).ID())
	}
	for i := 0; i < def.Len(); i++ {
		assert.True(t, def.At(i).Complete(), "%s should be complete", def.At(i))
	}
	for _, f := range Partial() {
		assert.False(t, f.Complete(), "%s should be partial", f)
	}
}

// Each sample must be claimed first by the format it is written for.
func TestKnownRegistries_FirstStructuralMatch(t *testing.T) {
	samples := map[string]string{
		"rfc3339-frac":            "2024-03-15T10:30:00.123+02:00",
		"rfc3339-frac-utc":        "2024-03-15T10:30:00.123Z",
		"rfc3339":                 "2024-03-15T10:30:00+02:00",
		"rfc3339-utc":             "2024-03-15T10:30:00Z",
		"iso-compact-offset":      "2024-03-15T10:30:00+0200",
		"iso-frac-compact-offset": "2024-03-15T10:30:00.5-0700",
		"datetime-offset":         "2024-03-15 10:30:00 +02:00",
		"datetime-utc":            "2024-03-15 10:30:00 UTC",
		"datetime-minute-offset":  "2024-03-15 10:30 +02:00",
		"iso-minute-offset":       "2024-03-15T10:30+02:00",
		"iso-frac":                "2024-03-15T10:30:00.25",
		"iso":                     "2024-03-15T10:30:00",
		"datetime":                "2024-03-15 10:30:00",
		"datetime-minute":         "2024-03-15 10:30",
		"date":                    "2024-03-15",
		"epoch":                   "@1704150000",
		"month-day-time":          "03-15 10:30:00",
		"month-day-minute":        "03-15 10:30",
		"month-day":               "03-15",
		"month-day-slash":         "03/15",
		"day-minute":              "15 10:30",
		"day-hour-minute":         "15 10h30",
		"day-hour":                "15 10h",
		"time":                    "10:30:00",
		"time-minute":             "10:30",
		"hour-minute":             "10h30",
		"hour":                    "9h",
		"minute-suffix":           "30m",
		"minute":                  "30",
	}

	reg := WithPartial()
	require.Len(t, samples, reg.Len(), "every known format needs a sample")

	for _, f := range reg.Formats() {
		input, ok := samples[f.ID()]
		require.True(t, ok, "no sample for %s", f.ID())

		t.Run(f.ID(), func(t *testing.T) {
			var first string
			for _, g := range reg.Formats() {
				if _, err := g.Match(input); err == nil {
					first = g.ID()
					break
				}
			}
			assert.Equal(t, f.ID(), first)
		})
	}
}
