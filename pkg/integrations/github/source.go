package github

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/matzehuels/mdscaffold/pkg/errors"
	"github.com/matzehuels/mdscaffold/pkg/harvest"
	"github.com/matzehuels/mdscaffold/pkg/httputil"
)

const (
	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the number of attempts for transient failures.
	MaxRetries = 3

	// RetryDelay is the initial delay between attempts.
	RetryDelay = time.Second
)

// Source lists and downloads repository content for one [RepoRef].
type Source struct {
	gh      *gh.Client
	ref     RepoRef
	limiter *RateLimiter

	attempts int
	delay    time.Duration
}

var _ harvest.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source) error

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(raw string) Option {
	return func(s *Source) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInput, err, "invalid base URL %q", raw)
		}
		s.gh.BaseURL = u
		return nil
	}
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(s *Source) error {
		s.attempts, s.delay = attempts, delay
		return nil
	}
}

// WithRateLimiter replaces the default limiter.
func WithRateLimiter(l *RateLimiter) Option {
	return func(s *Source) error {
		s.limiter = l
		return nil
	}
}

// NewSource creates a Source for ref. An empty token sends unauthenticated
// requests.
func NewSource(ctx context.Context, ref RepoRef, token string, opts ...Option) (*Source, error) {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = DefaultTimeout
	}

	s := &Source{
		gh:       gh.NewClient(httpClient),
		ref:      ref,
		limiter:  NewRateLimiter(),
		attempts: MaxRetries,
		delay:    RetryDelay,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RateLimiter returns the limiter shared by all requests.
func (s *Source) RateLimiter() *RateLimiter { return s.limiter }

// List returns the entries of the directory at path, or a single entry when
// path is a file.
func (s *Source) List(ctx context.Context, path string) ([]harvest.Entry, error) {
	file, dir, err := s.contents(ctx, "list", path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		return []harvest.Entry{toEntry(file)}, nil
	}

	entries := make([]harvest.Entry, 0, len(dir))
	for _, item := range dir {
		entries = append(entries, toEntry(item))
	}
	return entries, nil
}

// Fetch returns the encoded content of the file at path.
func (s *Source) Fetch(ctx context.Context, path string) (*harvest.Blob, error) {
	file, _, err := s.contents(ctx, "fetch", path)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, errors.New(errors.ErrCodeNetwork, "fetch %q: path is a directory, not a file", path)
	}

	blob := &harvest.Blob{Encoding: file.GetEncoding()}
	if file.Content != nil {
		blob.Content = *file.Content
	}
	return blob, nil
}

func (s *Source) contents(ctx context.Context, op, path string) (*gh.RepositoryContent, []*gh.RepositoryContent, error) {
	var (
		file *gh.RepositoryContent
		dir  []*gh.RepositoryContent
	)
	opts := &gh.RepositoryContentGetOptions{Ref: s.ref.Branch}

	err := httputil.Retry(ctx, s.attempts, s.delay, func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		f, d, resp, err := s.gh.Repositories.GetContents(ctx, s.ref.Owner, s.ref.Repo, path, opts)
		if resp != nil {
			s.limiter.UpdateFromResponse(resp.Response)
		}
		if err != nil {
			return classify(ctx, err)
		}
		file, dir = f, d
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, s.wrapError(err, op, path)
	}
	return file, dir, nil
}

// classify marks transport failures and 5xx responses as retryable.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if stderrors.As(err, &rateErr) || stderrors.As(err, &abuseErr) {
		return err
	}

	var respErr *gh.ErrorResponse
	if stderrors.As(err, &respErr) {
		if respErr.Response != nil && respErr.Response.StatusCode >= 500 {
			return &httputil.RetryableError{Err: err}
		}
		return err
	}
	return &httputil.RetryableError{Err: err}
}

// wrapError converts go-github errors into network errors with the
// repository location attached.
func (s *Source) wrapError(err error, op, path string) error {
	where := fmt.Sprintf("%s/%s/%s@%s", s.ref.Owner, s.ref.Repo, path, s.ref.Branch)

	var rateErr *gh.RateLimitError
	if stderrors.As(err, &rateErr) {
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s %s: rate limit exceeded, resets at %s",
			op, where, s.limiter.ResetTime().Format(time.RFC3339))
	}

	var respErr *gh.ErrorResponse
	if stderrors.As(err, &respErr) && respErr.Response != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s %s: status %d", op, where, respErr.Response.StatusCode)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", op, where)
}

func toEntry(c *gh.RepositoryContent) harvest.Entry {
	return harvest.Entry{
		Path: c.GetPath(),
		Type: c.GetType(),
		SHA:  c.GetSHA(),
	}
}
