package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

// Pinning client for the off-chain content store (Pinata-compatible API).
// The ledger only ever treats the returned CIDs as opaque strings; the
// ipfs:// prefix convention is applied here, at the edge.

var (
	pinFileURL = "https://api.pinata.cloud/pinning/pinFileToIPFS"
	pinJSONURL = "https://api.pinata.cloud/pinning/pinJSONToIPFS"
	gatewayURL = "https://gateway.pinata.cloud/ipfs/"

	ipfsHTTP = &http.Client{Timeout: 30 * time.Second}
	ipfsJWT  string
)

// InitIPFS checks the pinning credentials are present. Uploads will not work
// without them, but reads through the public gateway still do.
func InitIPFS() error {
	ipfsJWT = os.Getenv("PINATA_JWT")
	if gw := os.Getenv("IPFS_GATEWAY_URL"); gw != "" {
		gatewayURL = gw
	}
	if api := os.Getenv("PINATA_API_URL"); api != "" {
		pinFileURL = strings.TrimRight(api, "/") + "/pinning/pinFileToIPFS"
		pinJSONURL = strings.TrimRight(api, "/") + "/pinning/pinJSONToIPFS"
	}
	if ipfsJWT == "" {
		return fmt.Errorf("PINATA_JWT is not set")
	}
	return nil
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinFile uploads a media file and returns its CID with the ipfs:// prefix.
func PinFile(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("could not open upload: %w", err)
	}
	defer src.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileHeader.Filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, pinFileURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ipfsJWT)

	return doPin(req)
}

// PinJSON uploads a metadata document and returns its CID with the ipfs://
// prefix.
func PinJSON(payload interface{}) (string, error) {
	doc, err := json.Marshal(map[string]interface{}{
		"pinataContent": payload,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, pinJSONURL, bytes.NewReader(doc))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ipfsJWT)

	return doPin(req)
}

func doPin(req *http.Request) (string, error) {
	resp, err := ipfsHTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinning request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pinning service returned %d: %s", resp.StatusCode, string(raw))
	}

	var out pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("invalid pinning response: %w", err)
	}
	if out.IpfsHash == "" {
		return "", fmt.Errorf("pinning service returned no CID")
	}
	return "ipfs://" + out.IpfsHash, nil
}

// FetchCID reads a pinned document through the gateway. Callers treat a
// failure as "no metadata" rather than an error, so gating and insights never
// block on the content store.
func FetchCID(ctx context.Context, cid string) ([]byte, error) {
	clean := strings.TrimPrefix(cid, "ipfs://")
	if clean == "" {
		return nil, fmt.Errorf("empty cid")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gatewayURL+clean, nil)
	if err != nil {
		return nil, err
	}
	resp, err := ipfsHTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned %d for %s", resp.StatusCode, clean)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
