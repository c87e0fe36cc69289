package transport

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Price reads a price from YAML or JSON, written either as a number or a
// string, without going through float64.
type Price struct {
	decimal.Decimal
}

func (p *Price) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: price must be a scalar", node.Line)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: price %q: %w", node.Line, node.Value, err)
	}
	p.Decimal = d
	return nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("price %s: %w", string(b), err)
	}
	p.Decimal = d
	return nil
}

type ProductSeed struct {
	ID          string `yaml:"id"          json:"id"`
	Name        string `yaml:"name"        json:"name"`
	Description string `yaml:"description" json:"description"`
	Image       string `yaml:"image"       json:"image"`
	Price       Price  `yaml:"price"       json:"price"`
}

type SeedFile struct {
	Products []ProductSeed `yaml:"products" json:"products"`
}

// ParseSeed decodes a product seed file. The format follows the file
// extension: .yaml/.yml or .json.
func ParseSeed(name string, data []byte) ([]models.Product, error) {
	var f SeedFile
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported seed format", name)
	}

	out := make([]models.Product, 0, len(f.Products))
	for i, s := range f.Products {
		p := models.Product{
			Name:        strings.TrimSpace(s.Name),
			Description: s.Description,
			Image:       s.Image,
			Price:       s.Price.Decimal,
		}
		if s.ID != "" {
			id, err := uuid.Parse(s.ID)
			if err != nil {
				return nil, fmt.Errorf("%s: product %d: bad id %q", name, i+1, s.ID)
			}
			p.ID = id
		}
		out = append(out, p)
	}
	return out, nil
}
