package zkproof

import (
	"io"
	"os"
	"sync"

	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
)

var backendLogMu sync.Mutex

// ConfigureBackendLogger 设置 gnark 内部日志
//
// gnark 使用全局 zerolog 记录编译、setup、prove 的进度。
// silence 为 true 时全部丢弃，否则以 debug 级别输出到 stderr。
func ConfigureBackendLogger(silence bool) {
	backendLogMu.Lock()
	defer backendLogMu.Unlock()

	if silence {
		gnarklogger.Set(zerolog.New(io.Discard).Level(zerolog.Disabled))
		return
	}
	gnarklogger.Set(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Str("component", "gnark").Logger())
}
