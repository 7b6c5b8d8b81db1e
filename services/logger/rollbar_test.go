package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/user"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := &core.Config{Env: "TEST", Debug: true}
	logger := NewRollbarLogger(log.New(&buf, "TEST : ", 0), conf)

	usr := user.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	logger.Error("deleting blob", errors.New("boom"), usr)
	logger.Info("started", &usr)

	out := buf.String()
	assert.Contains(t, out, "TEST : deleting blob\n")
	assert.Contains(t, out, "TEST : boom\n")
	assert.Contains(t, out, "TEST : started\n")

	args := logger.prepare("msg", []interface{}{usr, "extra", &usr})
	assert.Equal(t, []interface{}{"msg", "extra"}, args, "users are consumed, not logged")
}
