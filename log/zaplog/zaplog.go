// Package zaplog adapts a zap.SugaredLogger to numacache.Logger.
package zaplog

import (
	"go.uber.org/zap"

	"github.com/cacheworks/numacache"
)

// Adapter forwards numacache's ambient Debugf calls to a zap sugared
// logger. The cache never logs on its hot path (Get/Insert/Remove); this
// adapter only sees construction-time diagnostics.
type Adapter struct {
	sugar *zap.SugaredLogger
}

// New wraps l. A nil l wraps zap.NewNop().
func New(l *zap.Logger) *Adapter {
	if l == nil {
		l = zap.NewNop()
	}
	return &Adapter{sugar: l.Sugar()}
}

// Debugf logs at debug level.
func (a *Adapter) Debugf(format string, args ...any) {
	a.sugar.Debugf(format, args...)
}

// Compile-time check: ensure Adapter implements numacache.Logger.
var _ numacache.Logger = (*Adapter)(nil)
