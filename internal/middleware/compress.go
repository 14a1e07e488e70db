package middleware

import (
	"compress/gzip"
	"io"
	"strings"

	"staffhub/internal/core"
	"staffhub/internal/telemetry"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"
)

// Compress 依 Accept-Encoding 壓縮回應本體，優先序 br > zstd > gzip。
// swagger / metrics 等工具路徑不壓，已帶 Content-Encoding 的回應也不重壓。
type Compress struct {
	trace *telemetry.Trace
}

func NewCompress(trace *telemetry.Trace) *Compress {
	return &Compress{trace: trace}
}

type compressMeta struct {
	Encoding string `trace:"http.response.encoding"`
}

func (m *Compress) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if strings.HasPrefix(endpoint, "/swagger") ||
			strings.HasPrefix(endpoint, "/metrics") ||
			strings.HasPrefix(endpoint, "/version") ||
			strings.HasPrefix(endpoint, "/health-check") {
			c.Next()
			return
		}

		encoding := pickEncoding(c.GetHeader("Accept-Encoding"))
		if encoding == "" {
			c.Next()
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCompressMiddleware))
		m.trace.ApplyTraceAttributes(span, compressMeta{Encoding: encoding})
		end(nil)

		cw := &compressWriter{ResponseWriter: c.Writer, encoding: encoding}
		c.Writer = cw
		defer cw.close()

		c.Next()
	}
}

// pickEncoding 回傳要採用的編碼；客戶端沒列任何支援的就回空字串
func pickEncoding(acceptEncoding string) string {
	accepted := map[string]bool{}
	for _, part := range strings.Split(acceptEncoding, ",") {
		token := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if token != "" {
			accepted[strings.ToLower(token)] = true
		}
	}
	for _, candidate := range []string{"br", "zstd", "gzip"} {
		if accepted[candidate] {
			return candidate
		}
	}
	return ""
}

type compressWriter struct {
	gin.ResponseWriter
	encoding string
	encoder  io.WriteCloser
	skipped  bool
}

// 第一次寫入時才決定要不要壓：已帶 Content-Encoding 的回應不重壓
func (w *compressWriter) ensureEncoder() {
	if w.encoder != nil || w.skipped {
		return
	}
	if w.Header().Get("Content-Encoding") != "" {
		w.skipped = true
		return
	}
	w.Header().Set("Content-Encoding", w.encoding)
	w.Header().Del("Content-Length")
	w.Header().Add("Vary", "Accept-Encoding")
	switch w.encoding {
	case "br":
		w.encoder = brotli.NewWriter(w.ResponseWriter)
	case "zstd":
		if enc, err := zstd.NewWriter(w.ResponseWriter); err == nil {
			w.encoder = enc
		} else {
			w.Header().Del("Content-Encoding")
			w.skipped = true
		}
	case "gzip":
		w.encoder = gzip.NewWriter(w.ResponseWriter)
	default:
		w.skipped = true
	}
}

func (w *compressWriter) Write(data []byte) (int, error) {
	w.ensureEncoder()
	if w.skipped {
		return w.ResponseWriter.Write(data)
	}
	return w.encoder.Write(data)
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *compressWriter) close() {
	if w.encoder != nil {
		_ = w.encoder.Close()
	}
}
