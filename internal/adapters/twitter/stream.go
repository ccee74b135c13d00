package twitter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"announcebot/internal/domain"
)

// maxLineSize bounds a single stream line.
const maxLineSize = 1 << 20

type streamPayload struct {
	Data   *domain.FeedMessage `json:"data"`
	Errors []apiError          `json:"errors"`
}

// Stream is a domain.FeedSource over the filtered stream. The HTTP connection
// is opened by the first Next call and lives until Close or a read error;
// it is bound to the context of the call that opened it.
type Stream struct {
	client *Client
	logger *slog.Logger

	mu      sync.Mutex
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// NewStream returns a lazily connected stream.
func NewStream(client *Client, logger *slog.Logger) *Stream {
	return &Stream{client: client, logger: logger}
}

func (s *Stream) connect(ctx context.Context) error {
	req, err := s.client.newRequest(ctx, http.MethodGet, streamPath, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return fmt.Errorf("stream returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	s.body = resp.Body
	s.scanner = sc
	s.logger.InfoContext(ctx, "stream connected")
	return nil
}

// Next blocks until a post arrives. Keep-alive blank lines are skipped.
// A line that does not decode yields an error wrapping
// domain.ErrMalformedMessage and leaves the stream usable; any other error
// closes the connection.
func (s *Stream) Next(ctx context.Context) (domain.FeedMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.FeedMessage{}, err
	}
	if s.body == nil {
		if err := s.connect(ctx); err != nil {
			return domain.FeedMessage{}, err
		}
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var p streamPayload
		if err := json.Unmarshal(line, &p); err != nil {
			return domain.FeedMessage{}, fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
		}
		if p.Data == nil {
			if len(p.Errors) > 0 {
				s.closeLocked()
				return domain.FeedMessage{}, fmt.Errorf("stream error: %s", p.Errors[0])
			}
			return domain.FeedMessage{}, fmt.Errorf("%w: payload has no data", domain.ErrMalformedMessage)
		}
		return *p.Data, nil
	}

	err := s.scanner.Err()
	s.closeLocked()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.FeedMessage{}, ctxErr
	}
	if errors.Is(err, bufio.ErrTooLong) {
		return domain.FeedMessage{}, fmt.Errorf("stream line exceeds %d bytes: %w", maxLineSize, err)
	}
	if err == nil {
		err = io.EOF
	}
	return domain.FeedMessage{}, fmt.Errorf("stream closed: %w", err)
}

// Close drops the connection. A later Next reconnects.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Stream) closeLocked() error {
	if s.body == nil {
		return nil
	}
	err := s.body.Close()
	s.body = nil
	s.scanner = nil
	return err
}
