package gateway

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Options configures a Client.
type Options struct {
	HTTPClient   *http.Client
	Tokens       TokenSource
	Logger       *zap.Logger
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Timeout:      15 * time.Second,
		RetryMax:     2,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		UserAgent:    "go-maryme",
		MaxBodyBytes: 4 << 20,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}
	if opts.RetryWaitMin <= 0 {
		opts.RetryWaitMin = 200 * time.Millisecond
	}
	if opts.RetryWaitMax < opts.RetryWaitMin {
		opts.RetryWaitMax = opts.RetryWaitMin
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 4 << 20
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Tokens == nil {
		opts.Tokens = StaticToken("")
	}
	return opts
}

// WithHTTPClient overrides the base HTTP client used for every request.
func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

// WithTokenSource attaches bearer tokens to requests.
func WithTokenSource(src TokenSource) OptionFn {
	return func(o *Options) {
		if src != nil {
			o.Tokens = src
		}
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithTimeout(d time.Duration) OptionFn {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithRetry configures retries for GET requests. Mutations are never retried.
func WithRetry(max int, waitMin, waitMax time.Duration) OptionFn {
	return func(o *Options) {
		o.RetryMax = max
		o.RetryWaitMin = waitMin
		o.RetryWaitMax = waitMax
	}
}

func WithUserAgent(ua string) OptionFn {
	return func(o *Options) {
		if ua != "" {
			o.UserAgent = ua
		}
	}
}
