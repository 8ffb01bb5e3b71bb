// Command seed populates a running storefront asset service with demo
// content through its public API, exercising the full ingestion pipeline:
// image validation, slug resolution, optimization, and persistence.
//
// Run: go run ./cmd/seed -addr http://localhost:8080 -items 25
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log"
	"math/rand"
	"mime/multipart"
	"net/http"
	"time"
)

var categories = []string{
	"Monitors", "Keyboards", "Audio", "Desk Accessories",
}

var itemAdjectives = []string{
	"Wireless", "Compact", "Ergonomic", "Ultra", "Classic", "Portable", "Pro",
}

var itemNouns = []string{
	"Écran 4K", "Mechanical Keyboard", "Headset", "Desk Mat", "Webcam",
	"USB-C Hub", "Laptop Stand", "Microphone",
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the asset service")
	items := flag.Int("items", 25, "number of catalog items to create")
	seed := flag.Int64("seed", 42, "random seed for reproducible names")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	client := &http.Client{Timeout: 30 * time.Second}

	categoryIDs := make([]string, 0, len(categories))
	for _, name := range categories {
		id, slug, err := createAsset(client, *addr, "category", map[string]string{
			"name":        name,
			"description": fmt.Sprintf("Everything in %s.", name),
		}, demoImage(800, 800, rng))
		if err != nil {
			log.Fatalf("create category %q: %v", name, err)
		}
		log.Printf("category %-20s -> %s", slug, id)
		categoryIDs = append(categoryIDs, id)
	}

	for i := 0; i < *items; i++ {
		name := fmt.Sprintf("%s %s %d",
			itemAdjectives[rng.Intn(len(itemAdjectives))],
			itemNouns[rng.Intn(len(itemNouns))],
			i+1,
		)
		price := fmt.Sprintf("%d.%02d", 10+rng.Intn(490), rng.Intn(100))
		width := 900 + rng.Intn(1200)
		height := 500 + rng.Intn(width-499)

		id, slug, err := createAsset(client, *addr, "catalog_item", map[string]string{
			"name":        name,
			"description": fmt.Sprintf("Demo listing for %s.", name),
			"price":       price,
			"category_id": categoryIDs[rng.Intn(len(categoryIDs))],
		}, demoImage(width, height, rng))
		if err != nil {
			log.Fatalf("create item %q: %v", name, err)
		}
		log.Printf("item     %-20s -> %s", slug, id)
	}

	for i, name := range []string{"Spring Sale", "Free Shipping Week", "New Arrivals"} {
		id, slug, err := createAsset(client, *addr, "banner", map[string]string{
			"name":       name,
			"sort_order": fmt.Sprintf("%d", i),
		}, demoImage(1600, 900, rng))
		if err != nil {
			log.Fatalf("create banner %q: %v", name, err)
		}
		log.Printf("banner   %-20s -> %s", slug, id)
	}

	log.Println("seeding complete")
}

// demoImage renders a flat-color JPEG of the given size.
func demoImage(width, height int, rng *rand.Rand) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := color.RGBA{R: uint8(rng.Intn(200)), G: uint8(rng.Intn(200)), B: uint8(rng.Intn(200)), A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		log.Fatalf("encode demo image: %v", err)
	}
	return buf.Bytes()
}

func createAsset(client *http.Client, addr, kind string, fields map[string]string, imageData []byte) (id, slug string, err error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", "", err
		}
	}
	part, err := mw.CreateFormFile("image", "seed.jpg")
	if err != nil {
		return "", "", err
	}
	if _, err := part.Write(imageData); err != nil {
		return "", "", err
	}
	if err := mw.Close(); err != nil {
		return "", "", err
	}

	url := fmt.Sprintf("%s/api/v1/assets/%s", addr, kind)
	resp, err := client.Post(url, mw.FormDataContentType(), &body)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data struct {
			ID   string `json:"id"`
			Slug string `json:"slug"`
		} `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", "", fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		if envelope.Error != nil {
			return "", "", fmt.Errorf("%s: %s", envelope.Error.Code, envelope.Error.Message)
		}
		return "", "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return envelope.Data.ID, envelope.Data.Slug, nil
}
