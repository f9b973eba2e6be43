package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
)

// paymentsvc creates Razorpay orders for rent payments. When no API
// credentials are configured it hands back a mock order so checkout flows
// can be exercised locally.

var httpClient = &http.Client{Timeout: 15 * time.Second}

func newApp() *iris.Application {
	app := iris.New()

	payment := app.Party("/api/payment")
	{
		payment.Post("/create-order", createOrder)
	}

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	return app
}

func main() {
	godotenv.Load()

	port := os.Getenv("PAYMENT_SERVICE_PORT")
	if port == "" {
		port = "8081"
	}
	newApp().Listen(":" + port)
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func createOrder(ctx iris.Context) {
	rupees, err := ctx.URLParamFloat64("amount")
	if err != nil || rupees <= 0 {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "a positive amount is required"})
		return
	}

	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	receipt := "txn_" + uuid.NewString()

	// Razorpay bills in paise. Round so fractional inputs cannot lose a
	// paisa to float truncation.
	paise := int64(math.Round(rupees * 100))

	if keyID == "" || keySecret == "" {
		ctx.JSON(iris.Map{
			"id":       "order_mock_" + uuid.NewString(),
			"amount":   paise,
			"currency": "INR",
			"receipt":  receipt,
			"status":   "created",
			"mock":     true,
		})
		return
	}

	payload, err := json.Marshal(orderRequest{
		Amount:   paise,
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": "could not build order request"})
		return
	}

	baseURL := os.Getenv("RAZORPAY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": "could not build order request"})
		return
	}
	req.SetBasicAuth(keyID, keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Println("razorpay request failed:", err)
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": "payment provider unreachable"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": "payment provider unreachable"})
		return
	}

	if resp.StatusCode >= 400 {
		log.Println("razorpay rejected order, status", strconv.Itoa(resp.StatusCode))
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.ContentType("application/json")
		ctx.Write(body)
		return
	}

	ctx.ContentType("application/json")
	ctx.Write(body)
}
