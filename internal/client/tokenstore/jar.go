package tokenstore

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// JarBackend keeps credentials as cookies in an http.CookieJar for the API
// origin. Cookies are scoped to path "/" with SameSite=Strict; Secure is set
// when secure is true, in which case the jar only returns them for https
// origins.
type JarBackend struct {
	jar    http.CookieJar
	origin *url.URL
	secure bool
	now    func() time.Time
}

// NewJarBackend creates an empty cookie jar for the origin of baseURL.
func NewJarBackend(baseURL string, secure bool) (*JarBackend, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	origin := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
	return &JarBackend{jar: jar, origin: origin, secure: secure, now: time.Now}, nil
}

// Jar returns the underlying cookie jar for use as http.Client.Jar.
func (b *JarBackend) Jar() http.CookieJar {
	return b.jar
}

func (b *JarBackend) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		Secure:   b.secure,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl > 0 {
		c.Expires = b.now().Add(ttl)
	}
	return c
}

func (b *JarBackend) Set(_ context.Context, name, value string, ttl time.Duration) error {
	b.jar.SetCookies(b.origin, []*http.Cookie{b.cookie(name, value, ttl)})
	return nil
}

func (b *JarBackend) SetMany(_ context.Context, entries []Entry) error {
	cookies := make([]*http.Cookie, 0, len(entries))
	for _, e := range entries {
		cookies = append(cookies, b.cookie(e.Name, e.Value, e.TTL))
	}
	b.jar.SetCookies(b.origin, cookies)
	return nil
}

func (b *JarBackend) Get(_ context.Context, name string) (string, bool, error) {
	for _, c := range b.jar.Cookies(b.origin) {
		if c.Name != name {
			continue
		}
		v, err := url.QueryUnescape(c.Value)
		if err != nil {
			return "", false, fmt.Errorf("decode cookie %s: %w", name, err)
		}
		return v, true, nil
	}
	return "", false, nil
}

func (b *JarBackend) Delete(_ context.Context, name string) error {
	b.jar.SetCookies(b.origin, []*http.Cookie{{Name: name, Path: "/", MaxAge: -1}})
	return nil
}

func (b *JarBackend) Clear(ctx context.Context) error {
	for _, k := range AllKinds {
		if err := b.Delete(ctx, string(k)); err != nil {
			return err
		}
	}
	return nil
}

func (b *JarBackend) Close() error { return nil }
