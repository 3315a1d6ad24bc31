// Package yandex provides a spellrule.Speller backed by the Yandex.Speller
// web service.
package yandex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/spellrule"
	"golang.org/x/time/rate"
)

// Service endpoints for each response format.
const (
	DefaultJSONBaseURL = "https://speller.yandex.net/services/spellservice.json"
	DefaultXMLBaseURL  = "https://speller.yandex.net/services/spellservice"
)

// DefaultLanguages is the language list sent when none is configured.
const DefaultLanguages = "ru,en"

// DefaultTimeout is the default timeout for a spell-check call.
const DefaultTimeout = 10 * time.Second

// maxResponseSize caps the response body read from the service.
const maxResponseSize = 10 << 20

// Format is the response format requested from the service.
type Format string

// Supported response formats.
const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// Error codes reported by the service.
const (
	ErrorUnknownWord    = 1
	ErrorRepeatWord     = 2
	ErrorCapitalization = 3
	ErrorTooManyErrors  = 4
)

// Option bits accepted by the service.
const (
	OptionIgnoreDigits         = 2
	OptionIgnoreURLs           = 4
	OptionFindRepeatWords      = 8
	OptionIgnoreCapitalization = 512
)

var _ spellrule.Speller = (*Speller)(nil)

// Speller checks text with the Yandex.Speller checkText method.
type Speller struct {
	client    *http.Client
	baseURL   string
	languages string
	options   int
	timeout   time.Duration
	format    Format
	limiter   *rate.Limiter
}

// Option configures a Speller.
type Option func(*Speller)

// WithBaseURL overrides the service endpoint. The checkText method is
// appended to it.
func WithBaseURL(u string) Option {
	return func(s *Speller) {
		s.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithLanguages sets the comma separated language list, e.g. "ru,en".
func WithLanguages(langs string) Option {
	return func(s *Speller) {
		s.languages = langs
	}
}

// WithOptions sets the option bit mask, e.g. OptionIgnoreDigits|OptionIgnoreURLs.
func WithOptions(opts int) Option {
	return func(s *Speller) {
		s.options = opts
	}
}

// WithTimeout sets the timeout for a single call.
func WithTimeout(d time.Duration) Option {
	return func(s *Speller) {
		s.timeout = d
	}
}

// WithHTTPClient sets the HTTP client used for calls. The client's own
// timeout is left unchanged.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Speller) {
		s.client = c
	}
}

// WithFormat selects the response format. The default endpoint follows the
// format unless WithBaseURL is also given.
func WithFormat(f Format) Option {
	return func(s *Speller) {
		s.format = f
	}
}

// WithRateLimit limits calls to rps per second. Zero or negative disables
// limiting.
func WithRateLimit(rps float64) Option {
	return func(s *Speller) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			s.limiter = nil
		}
	}
}

// NewSpeller creates a new Speller.
func NewSpeller(opts ...Option) *Speller {
	s := &Speller{
		languages: DefaultLanguages,
		timeout:   DefaultTimeout,
		format:    FormatJSON,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.baseURL == "" {
		s.baseURL = DefaultJSONBaseURL
		if s.format == FormatXML {
			s.baseURL = DefaultXMLBaseURL
		}
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}

	return s
}

// Check sends text to the service and returns the reported misspellings in
// service order. Blank text is not sent.
func (s *Speller) Check(ctx context.Context, text string) (*spellrule.SpellCheckResult, error) {
	if strings.TrimSpace(text) == "" {
		return &spellrule.SpellCheckResult{}, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, spellrule.WrapError(spellrule.ESPELL, err, "spell service rate limit: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	form := url.Values{
		"text":    {text},
		"lang":    {s.languages},
		"options": {strconv.Itoa(s.options)},
		"format":  {"plain"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/checkText", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, spellrule.WrapError(spellrule.ESPELL, err, "invalid spell service request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, spellrule.WrapError(spellrule.ESPELL, err, "spell service: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, spellrule.WrapError(spellrule.ESPELL, err, "read spell service response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, spellrule.Errorf(spellrule.ESPELL, "spell service returned HTTP %d", resp.StatusCode)
	}

	var errs []spellrule.SpellError
	if len(bytes.TrimSpace(body)) > 0 {
		if s.format == FormatXML {
			errs, err = parseXML(body)
		} else {
			errs, err = parseJSON(body)
		}
		if err != nil {
			return nil, spellrule.WrapError(spellrule.ESPELL, err, "malformed spell service response: %v", err)
		}
	}
	return &spellrule.SpellCheckResult{Errors: errs}, nil
}

func parseJSON(body []byte) ([]spellrule.SpellError, error) {
	var errs []spellrule.SpellError
	if err := json.Unmarshal(body, &errs); err != nil {
		return nil, err
	}
	return errs, nil
}

// parseXML reads a <SpellResult> document of <error> elements.
func parseXML(body []byte) ([]spellrule.SpellError, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, err
	}
	root := doc.SelectElement("SpellResult")
	if root == nil {
		return nil, fmt.Errorf("missing SpellResult element")
	}

	var errs []spellrule.SpellError
	for _, el := range root.SelectElements("error") {
		e := spellrule.SpellError{}
		for _, a := range []struct {
			key string
			dst *int
		}{
			{"code", &e.Code},
			{"pos", &e.Position},
			{"row", &e.Row},
			{"col", &e.Column},
			{"len", &e.Length},
		} {
			n, err := strconv.Atoi(el.SelectAttrValue(a.key, "0"))
			if err != nil {
				return nil, fmt.Errorf("error attribute %s: %w", a.key, err)
			}
			*a.dst = n
		}
		if w := el.SelectElement("word"); w != nil {
			e.Word = w.Text()
		}
		for _, sug := range el.SelectElements("s") {
			e.Suggestions = append(e.Suggestions, sug.Text())
		}
		errs = append(errs, e)
	}
	return errs, nil
}
