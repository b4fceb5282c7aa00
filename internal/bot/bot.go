// Package bot implements the conversation loop: accumulate a child profile
// from chat messages, and once birth date, sex, and at least one measurement
// are known, answer with growth percentiles.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sprouthq/sprout/internal/llm"
	"github.com/sprouthq/sprout/internal/session"
	"github.com/sprouthq/sprout/pkg/age"
	"github.com/sprouthq/sprout/pkg/lms"
	"github.com/sprouthq/sprout/pkg/reference"
	"go.uber.org/zap"
)

// Extractor is the slice of the LLM client the bot needs.
type Extractor interface {
	ExtractProfile(ctx context.Context, text string) (*llm.Extraction, error)
	DraftReply(ctx context.Context, summary string) (string, error)
}

// Result is one computed percentile, or the reason none was available.
type Result struct {
	Measurement reference.Measurement
	Value       float64
	Percentile  float64
	NoData      bool // true when the table has no row for this age
}

// Bot wires sessions, extraction, and the percentile engine together.
type Bot struct {
	sessions session.Store
	llm      Extractor
	engine   *lms.Engine
	log      *zap.Logger
	now      func() time.Time
}

// Option configures a Bot.
type Option func(*Bot)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(b *Bot) {
		b.now = now
	}
}

// New creates a Bot. extractor may be nil, in which case only the built-in
// keyword handling applies and users are asked to phrase facts explicitly.
func New(sessions session.Store, extractor Extractor, engine *lms.Engine, log *zap.Logger, opts ...Option) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bot{
		sessions: sessions,
		llm:      extractor,
		engine:   engine,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// resetWords end a conversation and clear stored state.
var resetWords = map[string]bool{
	"reset": true, "restart": true, "start over": true,
	"다시": true, "처음부터": true,
}

// Handle processes one user message and returns the reply text.
func (b *Bot) Handle(ctx context.Context, userID, text string) (string, error) {
	if resetWords[strings.ToLower(strings.TrimSpace(text))] {
		if err := b.sessions.Delete(ctx, userID); err != nil {
			return "", fmt.Errorf("reset session: %w", err)
		}
		return msgReset, nil
	}

	state, err := b.sessions.Get(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		state = &session.State{}
	} else if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	extraction := b.extract(ctx, text)
	if extraction != nil && extraction.Reset {
		if err := b.sessions.Delete(ctx, userID); err != nil {
			return "", fmt.Errorf("reset session: %w", err)
		}
		return msgReset, nil
	}
	if err := merge(state, extraction); err != nil {
		return err.Error(), nil // user-facing validation message, not a fault
	}

	state.UpdatedAt = b.now()
	if err := b.sessions.Put(ctx, userID, state); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	if !state.Complete() {
		return missingPrompt(state.Missing()), nil
	}
	return b.answer(ctx, state)
}

// extract runs LLM extraction; failures degrade to nil rather than breaking
// the conversation.
func (b *Bot) extract(ctx context.Context, text string) *llm.Extraction {
	if b.llm == nil {
		return nil
	}
	ex, err := b.llm.ExtractProfile(ctx, text)
	if err != nil {
		b.log.Warn("profile extraction failed", zap.Error(err))
		return nil
	}
	return ex
}

// merge folds extracted facts into the session state, validating as it goes.
func merge(state *session.State, ex *llm.Extraction) error {
	if ex == nil {
		return nil
	}
	if ex.BirthDate != nil {
		if _, err := age.ParseDate(*ex.BirthDate); err != nil {
			return errors.New(msgBadBirthDate)
		}
		state.BirthDate = *ex.BirthDate
	}
	if ex.Sex != nil {
		sex, err := reference.ParseSex(*ex.Sex)
		if err != nil {
			return errors.New(msgBadSex)
		}
		state.Sex = sex
	}
	if ex.HeightCM != nil {
		if *ex.HeightCM <= 0 {
			return errors.New(msgBadMeasurement)
		}
		state.HeightCM = ex.HeightCM
	}
	if ex.WeightKG != nil {
		if *ex.WeightKG <= 0 {
			return errors.New(msgBadMeasurement)
		}
		state.WeightKG = ex.WeightKG
	}
	return nil
}

// answer computes percentiles for every known measurement and renders the
// reply, preferring an LLM-drafted phrasing when available.
func (b *Bot) answer(ctx context.Context, state *session.State) (string, error) {
	birth, err := age.ParseDate(state.BirthDate)
	if err != nil {
		return msgBadBirthDate, nil
	}
	months := age.Months(birth, b.now())
	if months < 0 {
		return msgFutureBirthDate, nil
	}

	var results []Result
	if state.HeightCM != nil {
		results = append(results, b.compute(reference.Height, *state.HeightCM, state.Sex, months))
	}
	if state.WeightKG != nil {
		results = append(results, b.compute(reference.Weight, *state.WeightKG, state.Sex, months))
	}

	summary := renderSummary(months, results)
	if b.llm != nil {
		if reply, err := b.llm.DraftReply(ctx, summary); err == nil && reply != "" {
			return reply, nil
		} else if err != nil {
			b.log.Warn("reply drafting failed, using template", zap.Error(err))
		}
	}
	return summary, nil
}

func (b *Bot) compute(m reference.Measurement, value float64, sex reference.Sex, months int) Result {
	pct, err := b.engine.Percentile(sex, m, months, value)
	if err != nil {
		var notFound *lms.NotFoundError
		if errors.As(err, &notFound) {
			return Result{Measurement: m, Value: value, NoData: true}
		}
		// Invalid values are caught during merge; anything else is logged
		// and reported to the user as missing data.
		b.log.Error("percentile computation failed",
			zap.String("measurement", string(m)), zap.Error(err))
		return Result{Measurement: m, Value: value, NoData: true}
	}
	return Result{Measurement: m, Value: value, Percentile: pct}
}
