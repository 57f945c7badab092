package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"jewelry-assistant-be/internal/config"
	"jewelry-assistant-be/internal/repository/implementation"
	"jewelry-assistant-be/internal/service"
	"jewelry-assistant-be/pkg/database"
	"jewelry-assistant-be/pkg/embedding"
	"jewelry-assistant-be/pkg/embedding/jina"
	"jewelry-assistant-be/pkg/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	cfg := config.Load()

	var embedder embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	case "jina":
		embedder = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
	default:
		embedder = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
	}

	productRepo := implementation.NewProductRepository(db)
	embeddingRepo := implementation.NewProductEmbeddingRepository(db)
	ctx := context.Background()

	log.Println("Seeding jewellery catalog...")

	created, skipped := 0, 0
	for i := range seedProducts {
		p := &seedProducts[i]

		existing, err := productRepo.FindById(ctx, p.ID)
		if err != nil {
			log.Printf("Error checking product '%s': %v", p.ID, err)
			continue
		}
		if existing != nil {
			log.Printf("Product '%s' already exists, skipping...", p.ID)
			skipped++
			continue
		}

		if err := productRepo.Create(ctx, p); err != nil {
			log.Printf("Error creating product '%s': %v", p.ID, err)
			continue
		}
		created++
		log.Printf("Created product: %s (%s)", p.Name, p.ID)
	}

	log.Printf("Catalog seeded: %d created, %d skipped. Building vector index...", created, skipped)

	indexed := 0
	for i := range seedProducts {
		p := &seedProducts[i]
		document := service.BuildProductDocument(p)

		res, err := embedder.Generate(document, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("Error embedding product '%s': %v", p.ID, err)
			continue
		}
		if err := embeddingRepo.Upsert(ctx, p.ID, document, res.Embedding.Values); err != nil {
			log.Printf("Error storing embedding for '%s': %v", p.ID, err)
			continue
		}
		indexed++
	}

	log.Printf("✅ Seeding completed: %d products indexed.", indexed)
}

var seedProducts = []store.Product{
	{
		ID: "ring-solitaire-gold", Name: "Aurelia Solitaire Ring", Category: "ring", Price: 1450,
		Metal: "yellow gold", Gemstones: []string{"diamond"}, DesignType: "solitaire",
		StyleTags: []string{"classic", "timeless"}, OccasionTags: []string{"engagement", "anniversary"},
		RecipientTags: []string{"partner", "wife"},
		Description:   "A brilliant round diamond set on a polished 18k yellow gold band.",
	},
	{
		ID: "ring-halo-whitegold", Name: "Celeste Halo Ring", Category: "ring", Price: 1890,
		Metal: "white gold", Gemstones: []string{"diamond", "sapphire"}, DesignType: "halo",
		StyleTags: []string{"glamorous", "modern"}, OccasionTags: []string{"engagement"},
		RecipientTags: []string{"partner"},
		Description:   "A sapphire center stone wrapped in a sparkling diamond halo.",
	},
	{
		ID: "ring-band-silver", Name: "Luna Stacking Band", Category: "ring", Price: 180,
		Metal: "sterling silver", Gemstones: []string{"none"}, DesignType: "band",
		StyleTags: []string{"minimalist", "everyday"}, OccasionTags: []string{"casual", "birthday"},
		RecipientTags: []string{"friend", "self"},
		Description:   "A slim hammered silver band made for stacking.",
	},
	{
		ID: "ring-vintage-rose", Name: "Evelyn Vintage Ring", Category: "ring", Price: 960,
		Metal: "rose gold", Gemstones: []string{"morganite"}, DesignType: "vintage",
		StyleTags: []string{"vintage", "romantic"}, OccasionTags: []string{"anniversary", "birthday"},
		RecipientTags: []string{"wife", "mother"},
		Description:   "Milgrain detailing and a blush morganite give this ring an heirloom feel.",
	},
	{
		ID: "necklace-pearl-strand", Name: "Mirabel Pearl Strand", Category: "necklace", Price: 720,
		Metal: "white gold", Gemstones: []string{"pearl"}, DesignType: "strand",
		StyleTags: []string{"elegant", "classic"}, OccasionTags: []string{"wedding", "formal"},
		RecipientTags: []string{"mother", "wife"},
		Description:   "Freshwater pearls hand-knotted on silk with a white gold clasp.",
	},
	{
		ID: "necklace-pendant-gold", Name: "Sol Pendant Necklace", Category: "necklace", Price: 340,
		Metal: "yellow gold", Gemstones: []string{"none"}, DesignType: "pendant",
		StyleTags: []string{"minimalist", "everyday"}, OccasionTags: []string{"casual", "graduation"},
		RecipientTags: []string{"friend", "daughter", "self"},
		Description:   "A small sunburst pendant on a fine gold chain.",
	},
	{
		ID: "necklace-choker-emerald", Name: "Ivy Emerald Choker", Category: "necklace", Price: 2150,
		Metal: "white gold", Gemstones: []string{"emerald", "diamond"}, DesignType: "choker",
		StyleTags: []string{"glamorous", "statement"}, OccasionTags: []string{"gala", "formal"},
		RecipientTags: []string{"partner", "wife"},
		Description:   "Emerald baguettes alternating with pavé diamonds on a rigid collar.",
	},
	{
		ID: "earrings-stud-diamond", Name: "Nova Diamond Studs", Category: "earrings", Price: 890,
		Metal: "white gold", Gemstones: []string{"diamond"}, DesignType: "stud",
		StyleTags: []string{"classic", "everyday"}, OccasionTags: []string{"anniversary", "graduation"},
		RecipientTags: []string{"wife", "daughter", "mother"},
		Description:   "Quarter-carat diamonds in a four-prong white gold setting.",
	},
	{
		ID: "earrings-hoop-gold", Name: "Rio Bold Hoops", Category: "earrings", Price: 290,
		Metal: "yellow gold", Gemstones: []string{"none"}, DesignType: "hoop",
		StyleTags: []string{"modern", "statement"}, OccasionTags: []string{"casual", "birthday"},
		RecipientTags: []string{"friend", "sister", "self"},
		Description:   "Lightweight tube hoops with a mirror polish.",
	},
	{
		ID: "earrings-drop-amethyst", Name: "Violet Drop Earrings", Category: "earrings", Price: 410,
		Metal: "rose gold", Gemstones: []string{"amethyst"}, DesignType: "drop",
		StyleTags: []string{"romantic", "vintage"}, OccasionTags: []string{"birthday", "formal"},
		RecipientTags: []string{"mother", "sister"},
		Description:   "Pear-cut amethysts swinging from delicate rose gold hooks.",
	},
	{
		ID: "bracelet-tennis-diamond", Name: "Astra Tennis Bracelet", Category: "bracelet", Price: 2650,
		Metal: "white gold", Gemstones: []string{"diamond"}, DesignType: "tennis",
		StyleTags: []string{"glamorous", "classic"}, OccasionTags: []string{"anniversary", "wedding"},
		RecipientTags: []string{"wife", "partner"},
		Description:   "A continuous line of prong-set diamonds totalling two carats.",
	},
	{
		ID: "bracelet-bangle-silver", Name: "Wren Cuff Bangle", Category: "bracelet", Price: 210,
		Metal: "sterling silver", Gemstones: []string{"none"}, DesignType: "bangle",
		StyleTags: []string{"minimalist", "modern"}, OccasionTags: []string{"casual", "graduation"},
		RecipientTags: []string{"friend", "sister", "self"},
		Description:   "An open cuff with softly brushed texture.",
	},
	{
		ID: "bracelet-charm-gold", Name: "Fable Charm Bracelet", Category: "bracelet", Price: 560,
		Metal: "yellow gold", Gemstones: []string{"ruby"}, DesignType: "charm",
		StyleTags: []string{"playful", "romantic"}, OccasionTags: []string{"birthday", "valentine"},
		RecipientTags: []string{"daughter", "partner"},
		Description:   "A link bracelet with a ruby heart charm, ready for more stories.",
	},
}
