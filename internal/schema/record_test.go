package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeID_Deterministic(t *testing.T) {
	a := ComputeID("Miranda v. Arizona", "Custodial interrogation requires warnings.")
	b := ComputeID("Miranda v. Arizona", "Custodial interrogation requires warnings.")
	assert.Equal(t, a, b, "identical content must yield the identical id")
	assert.Len(t, a, 16)
}

func TestComputeID_DistinguishesContent(t *testing.T) {
	a := ComputeID("Miranda v. Arizona", "summary one")
	b := ComputeID("Miranda v. Arizona", "summary two")
	c := ComputeID("Mapp v. Ohio", "summary one")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestComputeID_FieldBoundary(t *testing.T) {
	// The separator prevents (ab, c) and (a, bc) from colliding.
	assert.NotEqual(t, ComputeID("ab", "c"), ComputeID("a", "bc"))
}

func TestValidate_ValidRecord(t *testing.T) {
	rec := &Record{
		CaseName: "Gideon v. Wainwright",
		Summary:  "Right to counsel applies to the states.",
		Source:   "scotus",
		Date:     "1963-03-18",
	}
	assert.Empty(t, Validate(rec))
	assert.True(t, IsValid(rec))
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantErr string
	}{
		{"missing case_name", Record{Summary: "text"}, "case_name"},
		{"missing summary", Record{CaseName: "Case"}, "summary"},
		{"whitespace case_name", Record{CaseName: "   ", Summary: "text"}, "case_name"},
		{"whitespace summary", Record{CaseName: "Case", Summary: "\t\n"}, "summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.rec)
			require.NotEmpty(t, errs)
			assert.Contains(t, strings.Join(errs, "; "), tt.wantErr)
			assert.False(t, IsValid(&tt.rec))
		})
	}
}

func TestValidate_BothRequiredMissing(t *testing.T) {
	errs := Validate(&Record{})
	assert.Len(t, errs, 2, "one error per missing field")
}

func TestValidate_Source(t *testing.T) {
	valid := []string{"scotus", "uscode", "blackslaw", "amjur", "custom"}
	for _, src := range valid {
		rec := &Record{CaseName: "Case", Summary: "text", Source: src}
		assert.Empty(t, Validate(rec), "source %q should be accepted", src)
	}

	rec := &Record{CaseName: "Case", Summary: "text", Source: "wikipedia"}
	errs := Validate(rec)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "invalid source")
}

func TestValidate_Date(t *testing.T) {
	tests := []struct {
		date  string
		valid bool
	}{
		{"1954-05-17", true},
		{"2020-02-29", true},
		{"", true}, // optional
		{"05/17/1954", false},
		{"1954-13-01", false},
		{"2019-02-29", false}, // not a calendar date
		{"not-a-date", false},
	}

	for _, tt := range tests {
		rec := &Record{CaseName: "Case", Summary: "text", Date: tt.date}
		errs := Validate(rec)
		if tt.valid {
			assert.Empty(t, errs, "date %q should be accepted", tt.date)
		} else {
			assert.NotEmpty(t, errs, "date %q should be rejected", tt.date)
		}
	}
}

func TestStamp(t *testing.T) {
	rec := &Record{CaseName: "Case", Summary: "text"}
	rec.Stamp("scotus")

	assert.Equal(t, ComputeID("Case", "text"), rec.ID)
	assert.Equal(t, SchemaVersion, rec.SchemaVersion)
	assert.Equal(t, "scotus", rec.Source)
}

func TestStamp_KeepsAdapterSource(t *testing.T) {
	rec := &Record{CaseName: "Term", Summary: "def", Source: "blackslaw"}
	rec.Stamp("")
	assert.Equal(t, "blackslaw", rec.Source, "empty tag must not clobber the adapter's source")
}
