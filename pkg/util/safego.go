// safego.go — 后台 goroutine 启动器。
package util

import (
	"fmt"
	"runtime/debug"

	"github.com/multi-agent/agent-console/pkg/logger"
)

// SafeGo 在新 goroutine 中执行 fn。panic 被捕获并带堆栈记录,
// 单个后台任务崩溃不拖垮进程。
func SafeGo(fn func()) {
	go func() {
		defer recoverPanic()
		fn()
	}()
}

func recoverPanic() {
	if r := recover(); r != nil {
		logger.Error("goroutine panicked",
			logger.FieldError, fmt.Sprint(r),
			"stack", string(debug.Stack()))
	}
}
