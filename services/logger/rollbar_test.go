package logsvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
)

func TestRollbarLogger_Warn(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	l := NewRollbarLogger(zap.New(obs), &core.Config{Env: "TEST", TestMode: true})

	p := auth.Principal{UserID: "u1", Email: "t@school.test", Role: auth.RoleTeacher}
	l.Warn("notification fanout failed", errors.New("boom"), map[string]interface{}{"audience": "class:c1"}, p)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "notification fanout failed", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "class:c1", ctx["audience"])
	assert.Equal(t, "u1", ctx["user_id"])
	assert.Equal(t, "teacher", ctx["role"])
}
