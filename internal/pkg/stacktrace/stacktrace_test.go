package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/shepherd/internal/notification/usecase.(*Usecase).Send(...)
	/src/shepherd/internal/notification/usecase/dispatch.go:88 +0x1a2
main.main()
	/src/shepherd/main.go:12 +0x25
`)

	assert.Equal(t, []string{"internal/notification/usecase/dispatch.go:88"}, InternalPaths(stack))
}
