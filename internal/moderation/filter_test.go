package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModerator struct {
	verdict models.ModerationVerdict
	err     error
	block   bool
	calls   int
}

func (s *stubModerator) Moderate(ctx context.Context, text string) (models.ModerationVerdict, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return models.ModerationVerdict{}, ctx.Err()
	}
	return s.verdict, s.err
}

func TestIsOffensive_Flagged(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain word", "eres una puta"},
		{"masked letter", "p*ta"},
		{"spaced letters", "P U T A"},
		{"spaced letters inside a sentence", "gasté 100 en la p u t a renta"},
		{"leetspeak", "m1erd@ de servicio"},
		{"accents and case", "PéNdEjO"},
		{"separators", "ca-br_on"},
		{"self censored", "qué p**a vida"},
		{"self censored longer", "m**rda"},
		{"threat phrase", "te voy a matar"},
		{"word start with suffix", "putazo"},
		{"dotted letters", "m.i.e.r.d.a"},
		{"dotted word start root", "p.u.t.a"},
		{"dotted inside a sentence", "eres un p.e.n.d.e.j.o"},
		{"slashed letters", "m/i/e/r/d/a"},
		{"dotted and spaced", "p. u. t. a"},
		{"split after two letters", "pu ta"},
		{"split inside a sentence", "gasté 100 en la pu ta renta"},
		{"root next to an excepted word", "qué verga con vergara"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := IsOffensive(tt.input)
			assert.True(t, verdict.Flagged)
			assert.NotEmpty(t, verdict.MatchedTerm)
			assert.Equal(t, models.SourceLocalPattern, verdict.Source)
		})
	}
}

func TestIsOffensive_Clean(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"rent payment", "pago la renta"},
		{"root inside a word", "compré una computadora 15000"},
		{"dispute", "disputa con el casero 500"},
		{"calculation", "pagué el cálculo 300"},
		{"squashed across words", "gasté 100 por no ir al cine"},
		{"food", "gasté $150.50 en tacos"},
		{"empty", ""},
		{"emoji", "🌮🌮 200"},
		{"single asterisk", "pagué 3*4 tacos"},
		{"surname starting with a root", "pagué a Vergara 300"},
		{"short word before a root-like pair", "pagué 300 por no llegar"},
		{"abbreviation with dots", "pagué la renta del depto. 5000"},
		{"url", "compré en mercadolibre.com/ofertas 250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := IsOffensive(tt.input)
			assert.False(t, verdict.Flagged, "matched %q", verdict.MatchedTerm)
		})
	}
}

func TestIsOffensive_MatchedTerm(t *testing.T) {
	assert.Equal(t, "puta", IsOffensive("p*ta").MatchedTerm)
	assert.Equal(t, "mierda", IsOffensive("M I E R D A").MatchedTerm)
	assert.Equal(t, "mierda", IsOffensive("m.i.e.r.d.a").MatchedTerm)
	assert.Equal(t, "puta", IsOffensive("pu ta").MatchedTerm)
}

func TestNewFilter_InvalidRules(t *testing.T) {
	_, err := NewFilter([]Rule{{Root: "***", Mode: ModeSquashed}}, nil, 0, nil)
	assert.Error(t, err)

	_, err = NewFilter([]Rule{{Root: "feo", Mode: MatchMode(9)}}, nil, 0, nil)
	assert.Error(t, err)
}

func TestFilter_CustomRules(t *testing.T) {
	filter, err := NewFilter([]Rule{{Root: "tonto", Mode: ModeWordStart}}, nil, 0, nil)
	require.NoError(t, err)

	assert.True(t, filter.Local("eres t0nt0").Flagged)
	assert.False(t, filter.Local("puta").Flagged, "only the configured table applies")
	assert.True(t, filter.Local("p**a").Flagged, "censorship pattern always applies")
}

func TestFilter_RuleExceptions(t *testing.T) {
	filter, err := NewFilter([]Rule{{Root: "tonto", Mode: ModeWordStart, Except: []string{"Tontorrón"}}}, nil, 0, nil)
	require.NoError(t, err)

	tests := []struct {
		input   string
		flagged bool
	}{
		{"eres tonto", true},
		{"eres un t.o.n.t.o", true},
		{"conocí a tontorrón 200", false},
		{"tontorrones 200", false},
		{"tontorrón y tonto", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.flagged, filter.Local(tt.input).Flagged)
		})
	}
}

func TestFilter_Check_Remote(t *testing.T) {
	t.Run("local hit skips remote", func(t *testing.T) {
		remote := &stubModerator{}
		filter, err := NewFilter(nil, remote, time.Second, logging.NewMockLogger())
		require.NoError(t, err)

		verdict := filter.Check(context.Background(), "pendejo")
		assert.True(t, verdict.Flagged)
		assert.Equal(t, models.SourceLocalPattern, verdict.Source)
		assert.Zero(t, remote.calls)
	})

	t.Run("remote flags", func(t *testing.T) {
		remote := &stubModerator{verdict: models.ModerationVerdict{Flagged: true, MatchedTerm: "harassment"}}
		filter, err := NewFilter(nil, remote, time.Second, nil)
		require.NoError(t, err)
		assert.True(t, filter.HasRemote())

		verdict := filter.Check(context.Background(), "mensaje feo 100")
		assert.True(t, verdict.Flagged)
		assert.Equal(t, "harassment", verdict.MatchedTerm)
		assert.Equal(t, models.SourceRemoteModeration, verdict.Source)
	})

	t.Run("remote clean", func(t *testing.T) {
		remote := &stubModerator{}
		filter, err := NewFilter(nil, remote, time.Second, nil)
		require.NoError(t, err)

		assert.False(t, filter.Check(context.Background(), "tacos 100").Flagged)
		assert.Equal(t, 1, remote.calls)
	})

	t.Run("remote error fails open", func(t *testing.T) {
		logger := logging.NewMockLogger()
		remote := &stubModerator{err: errors.New("503 service unavailable")}
		filter, err := NewFilter(nil, remote, time.Second, logger)
		require.NoError(t, err)

		assert.False(t, filter.Check(context.Background(), "tacos 100").Flagged)
		assert.True(t, logger.HasEntry("WARN", "Remote moderation failed, letting message through"))
	})

	t.Run("remote timeout fails open", func(t *testing.T) {
		remote := &stubModerator{block: true}
		filter, err := NewFilter(nil, remote, 20*time.Millisecond, nil)
		require.NoError(t, err)

		start := time.Now()
		assert.False(t, filter.Check(context.Background(), "tacos 100").Flagged)
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}

func TestCollapseSpacedLetters(t *testing.T) {
	assert.Equal(t, "puta", collapseSpacedLetters("p u t a"))
	assert.Equal(t, "eres una puta ya", collapseSpacedLetters("eres una p u t a ya"))
	assert.Equal(t, "pago la renta", collapseSpacedLetters("pago  la renta"))
	assert.Equal(t, "", collapseSpacedLetters("   "))
}

func TestWordStartPattern(t *testing.T) {
	assert.Equal(t, `\bp(?:u|\*)(?:t|\*)(?:a|\*)`, wordStartPattern("puta"))
}
