package operations

// Operation names
const (
	OpValidate                  = "validate"
	OpCryptoIntelligence        = "crypto_intelligence"
	OpStartupBuilder            = "startup_builder"
	OpContentMonetization       = "content_monetization"
	OpFashionPredictor          = "fashion_predictor"
	OpFoodInnovator             = "food_innovator"
	OpNFTCreator                = "nft_creator"
	OpSocialMediaTrendPredictor = "social_media_trend_predictor"
	OpInfluencerMatcher         = "influencer_matcher"
	OpDatingOptimizer           = "dating_optimizer"
	OpTravelCurator             = "travel_curator"
)

// Catalog returns a fresh copy of every operation in registration order.
func Catalog() []Operation {
	return []Operation{
		validateOp(),
		cryptoIntelligenceOp(),
		startupBuilderOp(),
		contentMonetizationOp(),
		fashionPredictorOp(),
		foodInnovatorOp(),
		nftCreatorOp(),
		socialMediaTrendPredictorOp(),
		influencerMatcherOp(),
		datingOptimizerOp(),
		travelCuratorOp(),
	}
}

func validateOp() Operation {
	return Operation{
		Name:        OpValidate,
		Description: "Validate the bearer token and return the user's phone number.",
		Template:    "validate",

		ReleasesIdentity: true,
	}
}

func cryptoIntelligenceOp() Operation {
	isBitcoin := Contains("bitcoin")
	return Operation{
		Name:        OpCryptoIntelligence,
		Description: "Real-time crypto market analysis and investment intelligence",
		UseWhen:     "When you need crypto market insights, trend predictions, or investment opportunities",
		Params: []Param{
			required("crypto_name", "Name of the cryptocurrency to analyze"),
			optional("analysis_type", "Type of analysis: 'trend', 'investment', 'sentiment'", "trend",
				"trend", "investment", "sentiment"),
		},
		Choices: []Choice{
			when("sentiment", "crypto_name", Contains("bitcoin", "ethereum"), "Bullish", "Neutral"),
			when("market_cap_trend", "crypto_name", isBitcoin, "Growing rapidly", "Stable growth"),
			when("trading_volume", "crypto_name", isBitcoin, "High activity", "Moderate activity"),
			when("risk_level", "crypto_name", isBitcoin, "Medium-High", "High"),
			when("potential_roi", "crypto_name", isBitcoin, "15-25% annually", "20-40% annually"),
			when("market_position", "crypto_name", isBitcoin, "Leading cryptocurrency", "Emerging player"),
			when("market_sentiment", "crypto_name", isBitcoin, "Very positive", "Positive"),
			when("short_term", "crypto_name", isBitcoin, "Bullish trend expected", "Volatile but upward"),
			when("medium_term", "crypto_name", isBitcoin, "Strong growth potential", "Growth potential"),
			when("long_term", "crypto_name", isBitcoin, "Mainstream adoption", "Increased adoption"),
		},
		Template: "crypto_intelligence.md.tmpl",
	}
}

func startupBuilderOp() Operation {
	return Operation{
		Name:        OpStartupBuilder,
		Description: "Validate business ideas and build startup roadmaps",
		UseWhen:     "When you have a business idea and want to validate it or create a startup plan",
		Params: []Param{
			required("business_idea", "Your business idea or concept"),
			optional("target_market", "Target market or audience", "General"),
			optional("investment_needed", "Investment range: 'low', 'medium', 'high'", "medium",
				"low", "medium", "high"),
		},
		Choices: []Choice{
			when("competitive_advantage", "business_idea", Contains("ai", "tech"),
				"Technology innovation", "Unique value proposition"),
			when("barriers_to_entry", "business_idea", Contains("ai"), "Medium", "Low to Medium"),
			byValue("seed_round", "investment_needed", []string{"low", "medium"},
				"50K-100K", "200K-500K", "1M-2M"),
		},
		Template: "startup_builder.md.tmpl",
	}
}

func contentMonetizationOp() Operation {
	audiences := []string{"small", "medium"}
	platforms := []string{"youtube", "instagram", "tiktok"}
	return Operation{
		Name:        OpContentMonetization,
		Description: "Analyze content performance and optimize monetization strategies",
		UseWhen:     "When you want to monetize your content or improve your content strategy",
		Params: []Param{
			required("content_type", "Type of content: 'video', 'blog', 'social', 'podcast'",
				"video", "blog", "social", "podcast"),
			optional("platform", "Platform: 'youtube', 'instagram', 'tiktok', 'blog'", "youtube",
				"youtube", "instagram", "tiktok", "blog"),
			optional("audience_size", "Current audience size: 'small', 'medium', 'large'", "medium",
				"small", "medium", "large"),
		},
		Choices: []Choice{
			byValue("ad_revenue", "audience_size", audiences, "500-2K", "2K-10K", "10K-50K"),
			byValue("sponsorships", "audience_size", audiences, "1K-5K", "5K-20K", "20K-100K"),
			byValue("affiliate", "audience_size", audiences, "200-1K", "1K-5K", "5K-25K"),
			byValue("revenue_current", "audience_size", audiences, "500-2K", "2K-10K", "10K-50K"),
			byValue("revenue_6_months", "audience_size", audiences, "2K-8K", "8K-30K", "30K-150K"),
			byValue("revenue_12_months", "audience_size", audiences, "5K-20K", "20K-80K", "80K-300K"),
			byValue("posting_times", "platform", platforms, "7-9 PM", "12-3 PM", "6-10 PM", "9-11 AM"),
			byValue("content_length", "platform", platforms,
				"10-15 minutes", "30-60 seconds", "15-60 seconds", "1500-2500 words"),
			byValue("engagement_tactics", "platform", platforms,
				"Call-to-actions, end screens", "Stories, Reels, IGTV", "Trending sounds, challenges",
				"Comments, social sharing"),
		},
		Template: "content_monetization.md.tmpl",
	}
}

func fashionPredictorOp() Operation {
	return Operation{
		Name:        OpFashionPredictor,
		Description: "Predict fashion trends and suggest style recommendations",
		UseWhen:     "When you want to stay ahead of fashion trends or get style advice",
		Params: []Param{
			required("style_preference", "Your style preference: 'casual', 'formal', 'streetwear', 'vintage'",
				"casual", "formal", "streetwear", "vintage"),
			optional("occasion", "Occasion: 'work', 'party', 'casual', 'formal'", "casual",
				"work", "party", "casual", "formal"),
			optional("season", "Season: 'spring', 'summer', 'fall', 'winter'", "summer",
				"spring", "summer", "fall", "winter"),
		},
		Template: "fashion_predictor.md.tmpl",
	}
}

func foodInnovatorOp() Operation {
	return Operation{
		Name:        OpFoodInnovator,
		Description: "Create unique recipes and predict food trends",
		UseWhen:     "When you want to create innovative recipes or understand food trends",
		Params: []Param{
			required("cuisine_type", "Cuisine type: 'italian', 'asian', 'mexican', 'fusion'",
				"italian", "asian", "mexican", "fusion"),
			optional("dietary_restrictions", "Dietary restrictions: 'none', 'vegetarian', 'vegan', 'gluten-free'", "none",
				"none", "vegetarian", "vegan", "gluten-free"),
			optional("skill_level", "Cooking skill level: 'beginner', 'intermediate', 'advanced'", "intermediate",
				"beginner", "intermediate", "advanced"),
		},
		Template: "food_innovator.md.tmpl",
	}
}

func nftCreatorOp() Operation {
	return Operation{
		Name:        OpNFTCreator,
		Description: "Generate NFT ideas and predict digital art trends",
		UseWhen:     "When you want to create NFTs or understand digital art trends",
		Params: []Param{
			required("art_style", "Art style: 'digital', 'pixel', '3d', 'abstract', 'photography'",
				"digital", "pixel", "3d", "abstract", "photography"),
			optional("theme", "Theme: 'cyberpunk', 'nature', 'space', 'anime', 'minimalist'", "cyberpunk",
				"cyberpunk", "nature", "space", "anime", "minimalist"),
			optional("rarity_level", "Rarity level: 'common', 'rare', 'epic', 'legendary'", "rare",
				"common", "rare", "epic", "legendary"),
		},
		Template: "nft_creator.md.tmpl",
	}
}

func socialMediaTrendPredictorOp() Operation {
	platforms := []string{"tiktok", "instagram", "youtube"}
	return Operation{
		Name:        OpSocialMediaTrendPredictor,
		Description: "Predict viral social media trends and content success",
		UseWhen:     "When you want to create viral content or predict social media trends",
		Params: []Param{
			required("platform", "Social media platform: 'tiktok', 'instagram', 'youtube', 'twitter'",
				"tiktok", "instagram", "youtube", "twitter"),
			optional("content_type", "Type of content: 'video', 'image', 'story', 'reel'", "video",
				"video", "image", "story", "reel"),
			optional("niche", "Content niche: 'lifestyle', 'tech', 'fashion', 'food', 'comedy'", "lifestyle",
				"lifestyle", "tech", "fashion", "food", "comedy"),
		},
		Choices: []Choice{
			byValue("posting_times", "platform", platforms, "7-9 PM", "12-3 PM", "2-4 PM", "9-11 AM"),
			byValue("frequency", "platform", platforms,
				"2-3 times daily", "1-2 times daily", "2-3 times weekly", "3-5 times daily"),
			byValue("engagement_window", "platform", platforms,
				"First 2 hours critical", "First 6 hours important", "First 24 hours key", "First 30 minutes crucial"),
		},
		Template: "social_media_trend_predictor.md.tmpl",
	}
}

func influencerMatcherOp() Operation {
	return Operation{
		Name:        OpInfluencerMatcher,
		Description: "Match influencers with brands and predict collaboration success",
		UseWhen:     "When you want to find brand collaborations or match influencers with opportunities",
		Params: []Param{
			required("influencer_type", "Type of influencer: 'micro', 'macro', 'mega'",
				"micro", "macro", "mega"),
			optional("niche", "Content niche: 'lifestyle', 'tech', 'fashion', 'food', 'fitness'", "lifestyle",
				"lifestyle", "tech", "fashion", "food", "fitness"),
			optional("platform", "Primary platform: 'instagram', 'tiktok', 'youtube'", "instagram",
				"instagram", "tiktok", "youtube"),
		},
		Choices: []Choice{
			byValue("base_rate", "influencer_type", []string{"micro", "macro"},
				"100-500", "1,000-5,000", "10,000-50,000"),
		},
		Template: "influencer_matcher.md.tmpl",
	}
}

func datingOptimizerOp() Operation {
	return Operation{
		Name:        OpDatingOptimizer,
		Description: "Optimize dating profiles and predict compatibility",
		UseWhen:     "When you want to improve your dating success or understand compatibility",
		Params: []Param{
			required("dating_platform", "Dating platform: 'tinder', 'bumble', 'hinge', 'okcupid'",
				"tinder", "bumble", "hinge", "okcupid"),
			optional("age_range", "Age range: '18-25', '26-35', '36-45', '45+'", "26-35",
				"18-25", "26-35", "36-45", "45+"),
			optional("relationship_goal", "Relationship goal: 'casual', 'serious', 'friendship', 'marriage'", "serious",
				"casual", "serious", "friendship", "marriage"),
		},
		Template: "dating_optimizer.md.tmpl",
	}
}

func travelCuratorOp() Operation {
	return Operation{
		Name:        OpTravelCurator,
		Description: "Curate travel experiences and predict trending destinations",
		UseWhen:     "When you want to plan unique travel experiences or discover trending destinations",
		Params: []Param{
			required("destination_type", "Destination type: 'beach', 'city', 'mountains', 'cultural', 'adventure'",
				"beach", "city", "mountains", "cultural", "adventure"),
			optional("budget_range", "Budget range: 'budget', 'mid-range', 'luxury'", "mid-range",
				"budget", "mid-range", "luxury"),
			optional("travel_style", "Travel style: 'solo', 'couple', 'family', 'group'", "couple",
				"solo", "couple", "family", "group"),
		},
		Template: "travel_curator.md.tmpl",
	}
}
