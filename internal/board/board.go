// Package board assembles the departure-board payload: it validates
// the request, consults the cache, fetches transit and weather data,
// runs everything through the formatter and shapes the response.
package board

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tabellone/tabellone/cache"
	"github.com/tabellone/tabellone/internal/config"
	"github.com/tabellone/tabellone/internal/format"
	"github.com/tabellone/tabellone/openweather"
	"github.com/tabellone/tabellone/viaggiatreno"
)

// TransitAPI is the slice of the transit client the board needs.
type TransitAPI interface {
	Departures(ctx context.Context, stationCode string, when time.Time) ([]viaggiatreno.Train, error)
	StationName(ctx context.Context, stationCode string) (string, error)
}

// WeatherAPI is the slice of the weather client the board needs.
type WeatherAPI interface {
	Current(ctx context.Context, city string) (openweather.Snapshot, error)
}

// Departure is one formatted row on the display.
type Departure struct {
	Type          string `json:"type"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departureTime"`
	Delay         string `json:"delay"`
}

// Weather is the formatted weather block.
type Weather struct {
	Temperature string `json:"temperature"`
	Description string `json:"description"`
}

// Board is the flat response payload. This is also the cached form;
// limit truncation and the fresh time stamp are applied per request,
// never to the cached copy.
type Board struct {
	Time        string      `json:"time"`
	StationName string      `json:"stationName,omitempty"`
	Weather     Weather     `json:"weather"`
	Departures  []Departure `json:"departures"`
}

// Options wires a Service together.
type Options struct {
	Transit TransitAPI
	Weather WeatherAPI
	Cache   cache.Store
	Cfg     *config.Config
	Logger  zerolog.Logger
	Now     func() time.Time // nil means time.Now
}

// Service builds board payloads. Safe for concurrent use; racing cache
// misses may fetch upstream twice, which is harmless duplicate work.
type Service struct {
	transit TransitAPI
	weather WeatherAPI
	cache   cache.Store
	cfg     *config.Config
	log     zerolog.Logger
	now     func() time.Time
}

// New creates a board service.
func New(opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		transit: opts.Transit,
		weather: opts.Weather,
		cache:   opts.Cache,
		cfg:     opts.Cfg,
		log:     opts.Logger,
		now:     now,
	}
}

// Snapshot returns the board for a station, serving from cache when a
// fresh entry exists. limit == 0 means no truncation; a cached payload
// is shared across callers with different limits.
func (s *Service) Snapshot(ctx context.Context, stationCode string, limit int) (*Board, error) {
	stationCode = strings.TrimSpace(stationCode)
	if stationCode == "" {
		return nil, &ValidationError{Msg: "station code required"}
	}
	if limit < 0 {
		return nil, &ValidationError{Msg: "limit must be positive"}
	}

	key := cache.DeparturesKey(stationCode)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached Board
		if err := json.Unmarshal(raw, &cached); err == nil {
			// The payload may be up to a minute old; the clock on the
			// display should not be.
			cached.Time = format.Clock(s.now().UnixMilli(), true)
			cached.Departures = truncate(cached.Departures, limit)
			return &cached, nil
		}
		s.log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	}

	now := s.now()
	trains, err := s.transit.Departures(ctx, stationCode, now)
	if err != nil {
		return nil, &UpstreamError{Op: "departures", Err: err}
	}

	departures := make([]Departure, 0, len(trains))
	for _, t := range trains {
		if s.cfg.Board.FilterDeparted && t.DepartureTime < now.UnixMilli() {
			continue
		}
		departures = append(departures, Departure{
			Type:          t.Category,
			Destination:   format.DestinationToken(t.Destination, s.cfg.Board.TitleCaseDestination),
			DepartureTime: format.Clock(t.DepartureTime, false),
			Delay:         format.Delay(t.Delay, s.cfg.Board.DelayPlusOnZero),
		})
	}

	weather, err := s.currentWeather(ctx)
	if err != nil {
		return nil, err
	}

	b := &Board{
		Time:        format.Clock(now.UnixMilli(), true),
		StationName: s.stationName(ctx, stationCode),
		Weather:     weather,
		Departures:  departures,
	}

	if raw, err := json.Marshal(b); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cfg.Cache.DeparturesTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}

	out := *b
	out.Departures = truncate(departures, limit)
	return &out, nil
}

// stationName resolves the display name for a station, caching hits
// for a long time since station identity is near-immutable. Resolution
// failure degrades to the raw code: a board with a cryptic header
// beats no board.
func (s *Service) stationName(ctx context.Context, stationCode string) string {
	key := cache.StationKey(stationCode)
	if raw, ok := s.cache.Get(ctx, key); ok {
		return string(raw)
	}

	name, err := s.transit.StationName(ctx, stationCode)
	if err != nil {
		s.log.Warn().Err(err).Str("station", stationCode).Msg("station name lookup failed, falling back to code")
		return stationCode
	}

	if err := s.cache.Set(ctx, key, []byte(name), s.cfg.Cache.StationTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return name
}

func (s *Service) currentWeather(ctx context.Context) (Weather, error) {
	city := s.cfg.Weather.City
	key := cache.WeatherKey(city)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var w Weather
		if err := json.Unmarshal(raw, &w); err == nil {
			return w, nil
		}
	}

	snap, err := s.weather.Current(ctx, city)
	if err != nil {
		return Weather{}, &UpstreamError{Op: "weather", Err: err}
	}

	w := Weather{
		Temperature: format.Temperature(snap.TempCelsius, s.cfg.Board.CommaDecimal),
		Description: snap.Description,
	}
	if raw, err := json.Marshal(w); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cfg.Cache.WeatherTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return w, nil
}

// Shape renders a board in the configured response shape. The grouped
// shape buckets departures by destination allow-list membership under
// configured JSON keys; departures matching neither list are dropped,
// which is the documented behavior, and the station name is omitted.
func (s *Service) Shape(b *Board) any {
	if s.cfg.Board.ResponseShape != config.ShapeGrouped {
		return b
	}

	groupA := []Departure{}
	groupB := []Departure{}
	for _, d := range b.Departures {
		switch {
		case format.InGroup(d.Destination, s.cfg.Board.GroupADestinations):
			groupA = append(groupA, d)
		case format.InGroup(d.Destination, s.cfg.Board.GroupBDestinations):
			groupB = append(groupB, d)
		}
	}

	return map[string]any{
		"time":                  b.Time,
		"weather":               b.Weather,
		s.cfg.Board.GroupAName: groupA,
		s.cfg.Board.GroupBName: groupB,
	}
}

func truncate(departures []Departure, limit int) []Departure {
	if limit > 0 && len(departures) > limit {
		return departures[:limit]
	}
	return departures
}
