package middleware

import (
	"context"
	"net"
	"strings"
	"time"

	"flashMarket/domain"
	"flashMarket/pkg/logger"

	"github.com/labstack/echo/v4"
)

// VisitorCache suppresses repeat rows per IP and caches geo lookups
type VisitorCache interface {
	SeenRecently(ctx context.Context, ip string) (bool, error)
	MarkSeen(ctx context.Context, ip string) error
	GetLocation(ctx context.Context, ip string) (string, error)
	SetLocation(ctx context.Context, ip, location string) error
}

// GeoIPResolver resolves an IP address to a human readable location
type GeoIPResolver interface {
	Lookup(ctx context.Context, ip string) string
}

// VisitorRepository contract interface
type VisitorRepository interface {
	Create(ctx context.Context, visitor *domain.Visitor) error
}

// VisitorTracking records one visitor row per IP per suppression window.
// Everything here is best effort: tracking failures never block the request.
func VisitorTracking(cache VisitorCache, geo GeoIPResolver, repo VisitorRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := clientIP(c)
			if ip == "" {
				return next(c)
			}

			go track(cache, geo, repo, ip, c.Request().UserAgent(),
				c.Request().URL.Path, c.Request().Method, c.Request().Referer())

			return next(c)
		}
	}
}

func track(cache VisitorCache, geo GeoIPResolver, repo VisitorRepository,
	ip, userAgent, urlPath, method, referrer string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seen, err := cache.SeenRecently(ctx, ip)
	if err != nil {
		logger.Warn("Failed to check visitor cache", err)
		return
	}
	if seen {
		return
	}

	location, err := cache.GetLocation(ctx, ip)
	if err != nil {
		logger.Warn("Failed to get cached location", err)
	}
	if location == "" {
		location = geo.Lookup(ctx, ip)
		if err := cache.SetLocation(ctx, ip, location); err != nil {
			logger.Warn("Failed to cache location", err)
		}
	}

	visitor := domain.Visitor{
		IPAddress: ip,
		Location:  location,
		UserAgent: userAgent,
		URLPath:   urlPath,
		Method:    method,
		Referrer:  referrer,
		VisitDate: time.Now(),
	}

	if err := repo.Create(ctx, &visitor); err != nil {
		logger.Warn("Failed to record visitor", err)
		return
	}

	if err := cache.MarkSeen(ctx, ip); err != nil {
		logger.Warn("Failed to mark visitor as seen", err)
	}
}

// clientIP prefers the first X-Forwarded-For hop when running behind a proxy
func clientIP(c echo.Context) string {
	forwarded := c.Request().Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		ip := strings.TrimSpace(parts[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	return c.RealIP()
}
