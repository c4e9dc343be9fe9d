// Package clipper imports recipes from web pages into the fridge inventory:
// fetch the page, strip markup noise, let the text generator pull out the
// ingredient list, then map ingredients through the grocery vocabulary into
// inventory items.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"grocery-concierge/internal/grocery"
	"grocery-concierge/internal/inventory"
	"grocery-concierge/internal/llm"
)

// Newly clipped items get a conservative one-week shelf life.
const defaultShelfLifeDays = 7

// ExtractedRecipe represents the data structured by the text generator.
type ExtractedRecipe struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
}

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	textGen    llm.TextGenerator
	vocab      grocery.Vocabulary
	httpClient *http.Client
	now        func() time.Time
}

// NewClipper creates a new Clipper instance.
func NewClipper(textGen llm.TextGenerator, vocab grocery.Vocabulary) *Clipper {
	return &Clipper{
		textGen:    textGen,
		vocab:      vocab,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

// ClipURL fetches the URL, extracts the recipe, and returns the recipe title
// plus the fridge items its ingredients resolve to. Ingredients outside the
// vocabulary are skipped.
func (c *Clipper) ClipURL(ctx context.Context, url string) (string, []inventory.Item, error) {
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "ingredients": ["item 1", "item 2", ...]
}

Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.

Page Content:
%s
`, content)

	response, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("ingredient extraction failed: %w", err)
	}

	var extracted ExtractedRecipe
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &extracted); err != nil {
		return "", nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	if len(extracted.Ingredients) == 0 {
		return "", nil, fmt.Errorf("no ingredients found at %s", url)
	}

	expiry := c.now().AddDate(0, 0, defaultShelfLifeDays).Format("2006-01-02")
	var items []inventory.Item
	for _, ing := range c.vocab.Extract(extracted.Ingredients) {
		items = append(items, inventory.Item{
			Name:       ing.Name,
			Quantity:   1,
			Unit:       ing.Unit,
			ExpiryDate: expiry,
			Category:   ing.Category,
		})
	}

	return extracted.Title, items, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save tokens.
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
