package goConsole

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/MrEthical07/goConsole/dispatch"
)

// Notice is a user-facing message.
type Notice = dispatch.Notice

// NoOpNotifier drops notices.
type NoOpNotifier struct{}

func (NoOpNotifier) Notify(context.Context, Notice) {}

// LogNotifier writes notices to a structured logger at the level matching
// the notice.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	level := slog.LevelInfo
	switch notice.Level {
	case dispatch.LevelWarning:
		level = slog.LevelWarn
	case dispatch.LevelError:
		level = slog.LevelError
	}
	n.logger.LogAttrs(ctx, level, notice.Message,
		slog.String("request_id", notice.RequestID),
		slog.String("url", notice.URL),
	)
}

// ChannelNotifier writes notices into a buffered channel. When the buffer
// is full Notify waits until ctx is done and then drops the notice.
type ChannelNotifier struct {
	notices chan Notice
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelNotifier{
		notices: make(chan Notice, buffer),
	}
}

func (s *ChannelNotifier) Notify(ctx context.Context, n Notice) {
	select {
	case s.notices <- n:
		return
	default:
	}
	select {
	case s.notices <- n:
	case <-ctx.Done():
	}
}

func (s *ChannelNotifier) Notices() <-chan Notice {
	return s.notices
}

// JSONWriterNotifier writes one JSON object per notice.
type JSONWriterNotifier struct {
	writer io.Writer
	now    func() time.Time
	mu     sync.Mutex
}

func NewJSONWriterNotifier(w io.Writer) *JSONWriterNotifier {
	return &JSONWriterNotifier{
		writer: w,
		now:    time.Now,
	}
}

type noticeRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
	URL       string    `json:"url,omitempty"`
}

func (s *JSONWriterNotifier) Notify(_ context.Context, n Notice) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(noticeRecord{
		Timestamp: s.now().UTC(),
		Level:     n.Level.String(),
		Message:   n.Message,
		RequestID: n.RequestID,
		URL:       n.URL,
	})
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
