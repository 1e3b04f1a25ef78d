package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"golang.org/x/text/language"
)

// TokenSource yields the current bearer token, if any.
type TokenSource interface {
	Token(ctx context.Context) (string, bool, error)
}

// LanguageSource yields the persisted language preference ("" if unset).
type LanguageSource interface {
	Language(ctx context.Context) (string, error)
}

// MultipartBody is sent as is. Its ContentType, normally taken from
// multipart.Writer.FormDataContentType, carries the boundary and overrides
// RequestSpec.ContentType.
type MultipartBody struct {
	Reader      io.Reader
	ContentType string
}

// RequestSpec describes one API call.
type RequestSpec struct {
	Method string
	Path   string
	Query  url.Values
	// Body is encoded as JSON unless it is nil, []byte, io.Reader or
	// *MultipartBody.
	Body        any
	ContentType string
	NeedAuth    bool
}

// RequestBuilder derives every header from live state on each Build call.
type RequestBuilder struct {
	base   *url.URL
	tokens TokenSource
	lang   LanguageSource
}

func NewRequestBuilder(baseURL string, tokens TokenSource, lang LanguageSource) (*RequestBuilder, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &RequestBuilder{base: u, tokens: tokens, lang: lang}, nil
}

const (
	langZhCN = "zh-CN"
	langEnUS = "en-US"
)

var zhBase, _ = language.Chinese.Base()

// AcceptLanguage maps a stored preference to the header value: any Chinese
// tag gives zh-CN, everything else, including no preference, gives en-US.
func AcceptLanguage(pref string) string {
	tag, err := language.Parse(strings.TrimSpace(pref))
	if err != nil {
		return langEnUS
	}
	if b, _ := tag.Base(); b == zhBase {
		return langZhCN
	}
	return langEnUS
}

// Build returns a request ready to send. A missing token with NeedAuth set
// is not an error; the request goes out unauthenticated.
func (b *RequestBuilder) Build(ctx context.Context, spec RequestSpec) (*http.Request, error) {
	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}

	u := b.base.JoinPath(spec.Path)
	if len(spec.Query) > 0 {
		u.RawQuery = spec.Query.Encode()
	}

	body, contentType, err := encodeBody(spec)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set(common.HeaderContentType, contentType)
	req.Header.Set("Accept", common.ContentTypeJSON)
	req.Header.Set(common.HeaderAcceptLanguage, AcceptLanguage(b.language(ctx)))

	if spec.NeedAuth {
		token, ok, err := b.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if ok {
			req.Header.Set(common.HeaderAuthorization, common.BearerPrefix+token)
		}
	}

	return req, nil
}

// language treats an unreadable preference as no preference.
func (b *RequestBuilder) language(ctx context.Context) string {
	if b.lang == nil {
		return ""
	}
	l, err := b.lang.Language(ctx)
	if err != nil {
		return ""
	}
	return l
}

func encodeBody(spec RequestSpec) (io.Reader, string, error) {
	contentType := spec.ContentType
	if contentType == "" {
		contentType = common.ContentTypeJSON
	}

	switch v := spec.Body.(type) {
	case nil:
		return nil, contentType, nil
	case *MultipartBody:
		return v.Reader, v.ContentType, nil
	case []byte:
		return bytes.NewReader(v), contentType, nil
	case io.Reader:
		return v, contentType, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(b), contentType, nil
	}
}
