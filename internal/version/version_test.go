package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		input   string
		policy  Policy
		wantErr bool
		want    string
	}{
		"desktop nightly":          {input: "143.0a1", policy: Desktop, want: "143.0a1"},
		"desktop release":          {input: "143.0", policy: Desktop, want: "143.0"},
		"desktop three components": {input: "143.0.1", policy: Desktop, wantErr: true},
		"desktop bare major":       {input: "143", policy: Desktop, wantErr: true},
		"desktop negative":         {input: "-143.0", policy: Desktop, wantErr: true},
		"desktop trailing junk":    {input: "143.0a2", policy: Desktop, wantErr: true},
		"esr two components":       {input: "140.1", policy: ESRDot, want: "140.1"},
		"esr three components":     {input: "140.1.2", policy: ESRDot, want: "140.1.2"},
		"esr four components":      {input: "140.1.2.3", policy: ESRDot, wantErr: true},
		"esr non-numeric":          {input: "140.x", policy: ESRDot, wantErr: true},
		"release two components":   {input: "136.0", policy: ReleaseDot, want: "136.0"},
		"ios in range":             {input: "142.3", policy: IOSRolling, want: "142.3"},
		"ios minor out of range":   {input: "142.4", policy: IOSRolling, wantErr: true},
		"ios three components":     {input: "142.0.1", policy: IOSRolling, wantErr: true},
		"empty string":             {input: "", policy: Desktop, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(tt.input, tt.policy)
			if tt.wantErr {
				require.Error(t, err)
				var fe *FormatError
				assert.True(t, errors.As(err, &fe))
				assert.Contains(t, fe.Error(), tt.input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestStripPreRelease(t *testing.T) {
	v, err := Parse("144.0a1", Desktop)
	require.NoError(t, err)

	stripped := v.StripPreRelease()
	assert.Equal(t, "144.0", stripped.String())

	// Idempotent: stripping twice equals stripping once.
	assert.Equal(t, stripped, stripped.StripPreRelease())

	// The receiver is untouched.
	assert.Equal(t, "144.0a1", v.String())
}

func TestBump(t *testing.T) {
	tests := map[string]struct {
		input  string
		policy Policy
		want   string
	}{
		"desktop re-applies marker": {input: "143.0a1", policy: Desktop, want: "144.0a1"},
		"desktop from release":      {input: "143.0", policy: Desktop, want: "144.0a1"},
		"esr appends patch":         {input: "140.1", policy: ESRDot, want: "140.1.1"},
		"esr increments patch":      {input: "140.1.1", policy: ESRDot, want: "140.1.2"},
		"release appends patch":     {input: "136.0", policy: ReleaseDot, want: "136.0.1"},
		"ios zero to one":           {input: "142.0", policy: IOSRolling, want: "142.1"},
		"ios one to two":            {input: "142.1", policy: IOSRolling, want: "142.2"},
		"ios two to three":          {input: "142.2", policy: IOSRolling, want: "142.3"},
		"ios rollover":              {input: "142.3", policy: IOSRolling, want: "143.0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := Parse(tt.input, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Bump(tt.policy).String())
		})
	}
}

func TestIOSRollingChain(t *testing.T) {
	// Each step is a pure function of the previous value only.
	v, err := Parse("142.0", IOSRolling)
	require.NoError(t, err)

	var seen []string
	for i := 0; i < 4; i++ {
		v = v.Bump(IOSRolling)
		seen = append(seen, v.String())
	}
	assert.Equal(t, []string{"142.1", "142.2", "142.3", "143.0"}, seen)
}

func TestBaseVersionForDotRelease(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    string
		wantErr bool
	}{
		"initial two component":    {input: "140.0", want: "140.0"},
		"initial three component":  {input: "140.0.0", want: "140.0"},
		"first dot of initial":     {input: "140.0.1", want: "140.0"},
		"two component minor":      {input: "140.2", want: "140.1.0"},
		"three component no patch": {input: "140.1.0", want: "140.0.0"},
		"patch decrement":          {input: "140.1.2", want: "140.1.1"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := Parse(tt.input, ESRDot)
			require.NoError(t, err)
			base, err := BaseVersionForDotRelease(v)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, base.String())
		})
	}
}

func TestBumpThenBaseRoundTrip(t *testing.T) {
	// Bumping a shipped base and deriving the base back recovers the
	// original on the simple-increment path.
	for _, s := range []string{"140.1", "140.1.1", "140.2.3"} {
		v, err := Parse(s, ESRDot)
		require.NoError(t, err)

		base, err := BaseVersionForDotRelease(v.Bump(ESRDot))
		require.NoError(t, err)
		assert.Equal(t, v.Major, base.Major, s)
		assert.Equal(t, v.Minor, base.Minor, s)
	}
}

func TestBaseVersionRejectsPreRelease(t *testing.T) {
	v, err := Parse("140.0a1", Desktop)
	require.NoError(t, err)
	_, err = BaseVersionForDotRelease(v)
	require.Error(t, err)
}
