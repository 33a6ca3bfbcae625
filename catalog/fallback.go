package catalog

import "storefront/models"

// fallbackProducts is served whenever the live store is empty or unreachable.
// It is never mutated; callers receive copies.
var fallbackProducts = [...]models.Product{
	{
		ID:            "essential-hoodie",
		Slug:          "essential-hoodie",
		Name:          "Essential Hoodie",
		Price:         79,
		OriginalPrice: 95,
		Image:         "/images/products/essential-hoodie.jpg",
		Images:        []string{"/images/products/essential-hoodie-back.jpg", "/images/products/essential-hoodie-detail.jpg"},
		Description:   "Heavyweight brushed fleece hoodie with a relaxed fit.",
		Sizes:         []string{"XS", "S", "M", "L", "XL"},
		Available:     true,
		Categories:    []string{"hoodies", "essentials"},
		Features:      []string{"450 gsm cotton fleece", "Double-lined hood", "Garment dyed"},
	},
	{
		ID:            "logo-tee",
		Slug:          "logo-tee",
		Name:          "Logo Tee",
		Price:         35,
		OriginalPrice: 35,
		Image:         "/images/products/logo-tee.jpg",
		Images:        []string{"/images/products/logo-tee-back.jpg"},
		Description:   "Boxy cotton tee with a tonal chest print.",
		Sizes:         []string{"XS", "S", "M", "L", "XL"},
		Available:     true,
		Categories:    []string{"tees", "essentials"},
	},
	{
		ID:            "cargo-pant",
		Slug:          "cargo-pant",
		Name:          "Cargo Pant",
		Price:         110,
		OriginalPrice: 130,
		Image:         "/images/products/cargo-pant.jpg",
		Images:        []string{},
		Description:   "Ripstop cargo pant with adjustable hems.",
		Sizes:         []string{"S", "M", "L", "XL"},
		Available:     true,
		Categories:    []string{"bottoms"},
		Features:      []string{"Ripstop cotton", "Six pockets"},
	},
	{
		ID:            "drop-01-jacket",
		Slug:          "drop-01-jacket",
		Name:          "Drop 01 Coach Jacket",
		Price:         160,
		OriginalPrice: 160,
		Image:         "/images/products/drop-01-jacket.jpg",
		Images:        []string{"/images/products/drop-01-jacket-lining.jpg"},
		Description:   "Numbered coach jacket from the first drop.",
		Sizes:         []string{"S", "M", "L"},
		Available:     false,
		Categories:    []string{"outerwear", "limited"},
		Limited:       true,
		SoldOut:       true,
	},
	{
		ID:            "everyday-cap",
		Slug:          "everyday-cap",
		Name:          "Everyday Cap",
		Price:         28,
		OriginalPrice: 28,
		Image:         "/images/products/everyday-cap.jpg",
		Images:        []string{},
		Description:   "Six-panel washed twill cap.",
		Sizes:         []string{"OS"},
		Available:     true,
		Categories:    []string{"accessories"},
	},
	{
		ID:            "crew-socks",
		Slug:          "crew-socks",
		Name:          "Crew Socks (3 pack)",
		Price:         18,
		OriginalPrice: 22,
		Image:         "/images/products/crew-socks.jpg",
		Images:        []string{},
		Description:   "Ribbed crew socks in a three pack.",
		Sizes:         []string{"S", "M", "L"},
		Available:     true,
		Categories:    []string{"accessories", "essentials"},
	},
}

// FallbackProducts returns a copy of the whole fallback catalog.
func FallbackProducts() []models.Product {
	return fallbackPrefix(len(fallbackProducts))
}

// FallbackBySlug looks up a fallback product by slug.
func FallbackBySlug(slug string) (models.Product, bool) {
	for i := range fallbackProducts {
		if fallbackProducts[i].Slug == slug {
			return cloneProduct(fallbackProducts[i]), true
		}
	}
	return models.Product{}, false
}

func fallbackPrefix(n int) []models.Product {
	if n > len(fallbackProducts) {
		n = len(fallbackProducts)
	}
	if n < 0 {
		n = 0
	}
	out := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, cloneProduct(fallbackProducts[i]))
	}
	return out
}

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string{}, p.Images...)
	p.Sizes = append([]string{}, p.Sizes...)
	p.Categories = append([]string{}, p.Categories...)
	if p.Features != nil {
		p.Features = append([]string{}, p.Features...)
	}
	return p
}
