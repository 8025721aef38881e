package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/catalog"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/feed"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/metrics"
)

// FeedSessionStore persists reveal windows per user. Get returns
// domain.ErrSessionNotFound when there is no such session.
type FeedSessionStore interface {
	Get(ctx context.Context, userID, sessionID string) (*feed.Session, error)
	Save(ctx context.Context, userID string, s *feed.Session) error
}

// SavedSetSource resolves a user's favorited listing ids.
type SavedSetSource interface {
	SavedSet(ctx context.Context, userID string) (feed.SavedSet, error)
}

type FeedPage struct {
	SessionID string
	Criteria  feed.Criteria
	Result    feed.Result
	// Reset is true when the criteria changed and the window went back to one page.
	Reset bool
	// Advanced is true when a reveal moved the window forward.
	Advanced bool
}

type FeedUsecase struct {
	catalog  *catalog.Catalog
	sessions FeedSessionStore
	saved    SavedSetSource
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
	newID    func() string
}

func NewFeedUsecase(cat *catalog.Catalog, sessions FeedSessionStore, saved SavedSetSource, m *metrics.MetricsManager, log *logger.Logger) *FeedUsecase {
	return &FeedUsecase{
		catalog:  cat,
		sessions: sessions,
		saved:    saved,
		metrics:  m,
		logger:   log.Named("FeedUsecase"),
		newID:    uuid.NewString,
	}
}

// Query evaluates the feed for criteria. An unknown or empty sessionID starts
// a new session; a known one keeps its window unless the criteria changed.
func (uc *FeedUsecase) Query(ctx context.Context, userID, sessionID string, criteria feed.Criteria, columns int) (*FeedPage, error) {
	sess, err := uc.loadSession(ctx, userID, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}

	reset := false
	if sess == nil {
		sess = feed.NewSession(uc.newID(), criteria)
	} else {
		reset = sess.SetCriteria(criteria)
	}

	result, err := uc.evaluate(ctx, userID, sess, columns)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, userID, sess); err != nil {
		uc.logger.Error("Query: failed to save session", zap.String("session_id", sess.ID), zap.Error(err))
		return nil, err
	}

	uc.metrics.FeedQueriesTotal.WithLabelValues(string(sess.Criteria.Sort)).Inc()
	uc.metrics.FeedResultSize.Observe(float64(result.Total))
	uc.logger.Debug("Query: feed evaluated",
		zap.String("session_id", sess.ID),
		zap.Int("total", result.Total),
		zap.Int("shown", len(result.Items)),
		zap.Bool("reset", reset))
	return &FeedPage{SessionID: sess.ID, Criteria: sess.Criteria, Result: result, Reset: reset}, nil
}

// RevealMore advances the session window by one page. seen is the reveal
// count the caller was displaying; repeated triggers for the same page are
// absorbed.
func (uc *FeedUsecase) RevealMore(ctx context.Context, userID, sessionID string, seen, columns int) (*FeedPage, error) {
	sess, err := uc.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	current, err := uc.evaluate(ctx, userID, sess, columns)
	if err != nil {
		return nil, err
	}
	if !current.HasMore {
		uc.metrics.FeedRevealsTotal.WithLabelValues("exhausted").Inc()
		return &FeedPage{SessionID: sess.ID, Criteria: sess.Criteria, Result: current}, nil
	}
	if !sess.Reveal(seen) {
		uc.metrics.FeedRevealsTotal.WithLabelValues("duplicate").Inc()
		uc.logger.Debug("RevealMore: stale trigger ignored", zap.String("session_id", sess.ID), zap.Int("seen", seen), zap.Int("reveal_count", sess.RevealCount))
		return &FeedPage{SessionID: sess.ID, Criteria: sess.Criteria, Result: current}, nil
	}

	next, err := uc.evaluate(ctx, userID, sess, columns)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, userID, sess); err != nil {
		uc.logger.Error("RevealMore: failed to save session", zap.String("session_id", sess.ID), zap.Error(err))
		return nil, err
	}
	uc.metrics.FeedRevealsTotal.WithLabelValues("advanced").Inc()
	return &FeedPage{SessionID: sess.ID, Criteria: sess.Criteria, Result: next, Advanced: true}, nil
}

func (uc *FeedUsecase) loadSession(ctx context.Context, userID, sessionID string) (*feed.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	sess, err := uc.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			uc.logger.Error("failed to load feed session", zap.String("session_id", sessionID), zap.Error(err))
		}
		return nil, err
	}
	return sess, nil
}

func (uc *FeedUsecase) evaluate(ctx context.Context, userID string, sess *feed.Session, columns int) (feed.Result, error) {
	var saved feed.SavedSet
	if sess.Criteria.SavedOnly {
		var err error
		saved, err = uc.saved.SavedSet(ctx, userID)
		if err != nil {
			return feed.Result{}, err
		}
	}
	return feed.Apply(uc.catalog.Snapshot(), sess.Params(saved, columns)), nil
}
