package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
)

// mapsvc wraps the Google Maps geocoding and distance APIs behind a small
// HTTP surface. Without an API key it answers with deterministic mock
// payloads so the rest of the platform keeps working in development. With a
// key configured, upstream failures surface as 500s rather than mock data.

var (
	httpClient  = &http.Client{Timeout: 10 * time.Second}
	cacheClient *redis.Client
)

const cacheTTL = 24 * time.Hour

func newApp() *iris.Application {
	app := iris.New()

	maps := app.Party("/api/maps")
	{
		maps.Get("/geocode", geocode)
		maps.Get("/distance", distance)
		maps.Get("/test", func(ctx iris.Context) {
			ctx.JSON(iris.Map{"status": "Maps service is running"})
		})
	}

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	return app
}

func main() {
	godotenv.Load()
	initCache()

	port := os.Getenv("MAPS_SERVICE_PORT")
	if port == "" {
		port = "8082"
	}
	newApp().Listen(":" + port)
}

func initCache() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	cacheClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := cacheClient.Ping(context.Background()).Err(); err != nil {
		log.Println("maps cache unavailable, continuing without it:", err)
		cacheClient = nil
	}
}

func mapsBaseURL() string {
	if base := os.Getenv("GOOGLE_MAPS_BASE_URL"); base != "" {
		return base
	}
	return "https://maps.googleapis.com"
}

func geocode(ctx iris.Context) {
	address := ctx.URLParam("address")
	if address == "" {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "address is required"})
		return
	}

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		ctx.JSON(mockGeocode(address))
		return
	}

	if cached, ok := cacheGet("geocode:" + address); ok {
		ctx.ContentType("application/json")
		ctx.Write(cached)
		return
	}

	endpoint := mapsBaseURL() + "/maps/api/geocode/json?address=" +
		url.QueryEscape(address) + "&key=" + apiKey
	body, err := fetch(endpoint)
	if err != nil {
		log.Println("geocode upstream error:", err)
		ctx.StopWithJSON(iris.StatusInternalServerError,
			iris.Map{"error": "Error resolving address: " + err.Error()})
		return
	}

	cacheSet("geocode:"+address, body)
	ctx.ContentType("application/json")
	ctx.Write(body)
}

func distance(ctx iris.Context) {
	origin := ctx.URLParam("origin")
	destination := ctx.URLParam("destination")
	if origin == "" || destination == "" {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "origin and destination are required"})
		return
	}

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		ctx.JSON(mockDistance(origin, destination))
		return
	}

	cacheKey := "distance:" + origin + "|" + destination
	if cached, ok := cacheGet(cacheKey); ok {
		ctx.ContentType("application/json")
		ctx.Write(cached)
		return
	}

	endpoint := mapsBaseURL() + "/maps/api/distancematrix/json?origins=" +
		url.QueryEscape(origin) + "&destinations=" + url.QueryEscape(destination) + "&key=" + apiKey
	body, err := fetch(endpoint)
	if err != nil {
		log.Println("distance upstream error:", err)
		ctx.StopWithJSON(iris.StatusInternalServerError,
			iris.Map{"error": "Error resolving distance: " + err.Error()})
		return
	}

	cacheSet(cacheKey, body)
	ctx.ContentType("application/json")
	ctx.Write(body)
}

func mockGeocode(address string) iris.Map {
	return iris.Map{
		"status": "OK",
		"results": []iris.Map{
			{
				"formatted_address": address,
				"geometry": iris.Map{
					"location": iris.Map{"lat": 18.5204, "lng": 73.8567},
				},
			},
		},
	}
}

func mockDistance(origin, destination string) iris.Map {
	return iris.Map{
		"status":                "OK",
		"origin_addresses":      []string{"Mock Origin"},
		"destination_addresses": []string{"Mock Destination"},
		"requested_origin":      origin,
		"requested_destination": destination,
		"rows": []iris.Map{
			{
				"elements": []iris.Map{
					{
						"status":   "OK",
						"distance": iris.Map{"text": "5.2 km"},
						"duration": iris.Map{"text": "15 mins"},
					},
				},
			},
		},
	}
}

// fetch returns the upstream body only for 2xx responses; anything else is
// an error so callers never relay or cache a provider failure.
func fetch(endpoint string) ([]byte, error) {
	resp, err := httpClient.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func cacheGet(key string) ([]byte, bool) {
	if cacheClient == nil {
		return nil, false
	}
	val, err := cacheClient.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	if !json.Valid(val) {
		return nil, false
	}
	return val, true
}

func cacheSet(key string, body []byte) {
	if cacheClient == nil || !json.Valid(body) {
		return
	}
	cacheClient.Set(context.Background(), key, body, cacheTTL)
}
