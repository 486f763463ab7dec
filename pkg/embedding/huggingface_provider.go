package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HuggingFaceProvider generates embeddings through the HF Inference API
// feature-extraction pipeline (e.g. BAAI/bge-base-en-v1.5).
type HuggingFaceProvider struct {
	apiKey string
	model  string
	client *http.Client
}

var _ EmbeddingProvider = &HuggingFaceProvider{}

func NewHuggingFaceProvider(apiKey, model string) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type hfRequest struct {
	Inputs []string `json:"inputs"`
}

func (p *HuggingFaceProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	hfReq := hfRequest{Inputs: []string{text}}
	hfReqJson, err := json.Marshal(hfReq)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://router.huggingface.co/hf-inference/models/%s/pipeline/feature-extraction",
		p.model,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(hfReqJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from huggingface response, code %d, body %s", res.StatusCode, string(resByte))
	}

	// The pipeline returns one vector per input
	var vectors [][]float32
	if err := json.Unmarshal(resByte, &vectors); err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("huggingface returned an empty embedding")
	}

	return vectors[0], nil
}
