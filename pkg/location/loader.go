package location

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-maryme/pkg/gateway"
)

// RegionsPath is the backend path of the region tree.
const RegionsPath = "regions"

// Loader fetches the region tree once and shares it. Concurrent loads collapse
// into a single request.
type Loader struct {
	client *gateway.Client
	logger *zap.Logger
	group  singleflight.Group

	mu   sync.RWMutex
	tree *Tree
}

// NewLoader builds a loader over client. A nil logger disables logging.
func NewLoader(client *gateway.Client, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, logger: logger.Named("location")}
}

// Load returns the cached tree, fetching it on first use.
func (l *Loader) Load(ctx context.Context) (*Tree, error) {
	l.mu.RLock()
	tree := l.tree
	l.mu.RUnlock()
	if tree != nil {
		return tree, nil
	}
	return l.fetch(ctx)
}

// Refresh drops the cache and fetches again.
func (l *Loader) Refresh(ctx context.Context) (*Tree, error) {
	l.mu.Lock()
	l.tree = nil
	l.mu.Unlock()
	return l.fetch(ctx)
}

func (l *Loader) fetch(ctx context.Context) (*Tree, error) {
	v, err, shared := l.group.Do(RegionsPath, func() (any, error) {
		env, err := gateway.Get[[]Region](ctx, l.client, RegionsPath, nil)
		if err != nil {
			return nil, err
		}
		tree := NewTree(env.Data)
		l.mu.Lock()
		l.tree = tree
		l.mu.Unlock()
		l.logger.Debug("region tree loaded",
			zap.Int("regions", len(tree.Regions())),
			zap.Int("communes", tree.CommuneCount()),
		)
		return tree, nil
	})
	if err != nil {
		l.logger.Warn("region tree load failed", zap.Error(err), zap.Bool("shared", shared))
		return nil, err
	}
	return v.(*Tree), nil
}
