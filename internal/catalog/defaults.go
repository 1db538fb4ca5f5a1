// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import "github.com/pdiddy/idea-engine/pkg/types"

// DefaultModels returns the built-in model catalog. Both entries run
// against real providers when API keys are present; the scheduler falls
// back to simulation otherwise.
func DefaultModels() []types.ModelDescriptor {
	return []types.ModelDescriptor{
		{
			ID:       "model_claude",
			Name:     "claude-3-sonnet-20240229",
			Provider: "anthropic",
			Parameters: types.ModelParameters{
				Temperature: 0.7,
				MaxTokens:   1024,
			},
		},
		{
			ID:       "model_gpt",
			Name:     "gpt-4o-mini",
			Provider: "openai",
			Parameters: types.ModelParameters{
				Temperature: 0.7,
				MaxTokens:   1024,
			},
		},
	}
}

// DefaultInstructions returns the built-in template library. Each
// template frames the same question through a different cognitive style.
func DefaultInstructions() []types.InstructionTemplate {
	return []types.InstructionTemplate{
		{
			ID:   "ins_analytical",
			Name: "Analytical Framework",
			Template: "You are an expert analyst specializing in {domain}. Approach the following " +
				"question with careful analysis, systematic thinking, and evidence-based reasoning. " +
				"Consider multiple perspectives, identify potential challenges, and evaluate trade-offs. " +
				"Focus on creating a structured, logical response.",
			CognitiveStyle: "analytical",
			Strength:       "structured reasoning",
		},
		{
			ID:   "ins_creative",
			Name: "Creative Framework",
			Template: "You are a highly creative thinker specializing in {domain}. Approach the following " +
				"question with imagination, novel associations, and out-of-the-box thinking. " +
				"Explore unconventional ideas, make surprising connections, and consider radical alternatives. " +
				"Focus on generating innovative concepts without being constrained by conventional thinking.",
			CognitiveStyle: "divergent",
			Strength:       "novel ideation",
		},
		{
			ID:   "ins_critical",
			Name: "Critical Framework",
			Template: "You are a critical thinker specializing in {domain}. Approach the following " +
				"question by challenging assumptions, identifying potential flaws, and considering counterarguments. " +
				"Focus on rigorously evaluating ideas rather than accepting them at face value. " +
				"Identify hidden constraints, unstated assumptions, and potential negative consequences.",
			CognitiveStyle: "critical",
			Strength:       "assumption challenging",
		},
		{
			ID:   "ins_integrative",
			Name: "Integrative Framework",
			Template: "You are an expert in integrative thinking specializing in {domain}. Approach the following " +
				"question by synthesizing diverse perspectives, reconciling apparent contradictions, and creating holistic solutions. " +
				"Focus on finding the connections between different disciplines and frameworks. " +
				"Consider how various stakeholders might contribute to a comprehensive solution.",
			CognitiveStyle: "integrative",
			Strength:       "synthesis",
		},
		{
			ID:   "ins_pragmatic",
			Name: "Pragmatic Framework",
			Template: "You are a pragmatic problem-solver specializing in {domain}. Approach the following " +
				"question with a focus on practical implementation, resource constraints, and real-world feasibility. " +
				"Focus on creating solutions that can be readily applied and that address immediate needs. " +
				"Consider ease of adoption, cost-effectiveness, and scalability.",
			CognitiveStyle: "pragmatic",
			Strength:       "implementation focus",
		},
		{
			ID:   "ins_first_principles",
			Name: "First Principles Framework",
			Template: "You are a first principles thinker specializing in {domain}. Approach the following " +
				"question by breaking it down to its fundamental truths and building up from there. " +
				"Avoid relying on analogies or conventional wisdom. Instead, focus on identifying " +
				"the core elements of the problem and recombining them in novel ways.",
			CognitiveStyle: "reductive",
			Strength:       "fundamental analysis",
		},
		{
			ID:   "ins_systems",
			Name: "Systems Thinking Framework",
			Template: "You are a systems thinker specializing in {domain}. Approach the following " +
				"question by considering the whole ecosystem of interrelated components. " +
				"Focus on identifying feedback loops, emergent properties, and non-linear relationships. " +
				"Consider how interventions in one part of the system might affect other parts, " +
				"both immediately and over time.",
			CognitiveStyle: "systems",
			Strength:       "holistic analysis",
		},
		{
			ID:   "ins_contrarian",
			Name: "Contrarian Framework",
			Template: "You are a contrarian thinker specializing in {domain}. Approach the following " +
				"question by deliberately taking positions opposite to conventional wisdom. " +
				"Seek to identify why the most popular or obvious solutions might be wrong. " +
				"Focus on finding value in overlooked or dismissed approaches.",
			CognitiveStyle: "contrarian",
			Strength:       "challenging orthodoxy",
		},
		{
			ID:   "ins_historical",
			Name: "Historical Framework",
			Template: "You are a historical analyst specializing in {domain}. Approach the following " +
				"question by examining relevant historical precedents and patterns. " +
				"Consider how similar challenges have been addressed in the past, what succeeded, " +
				"what failed, and why. Extract lessons and principles that might apply to the current situation.",
			CognitiveStyle: "historical",
			Strength:       "pattern recognition",
		},
		{
			ID:   "ins_futurist",
			Name: "Future-Oriented Framework",
			Template: "You are a futurist specializing in {domain}. Approach the following " +
				"question by considering long-term trends, emerging technologies, and potential " +
				"paradigm shifts. Focus on anticipating how the context might change over time " +
				"and creating solutions that remain relevant or adapt to evolving conditions.",
			CognitiveStyle: "futurist",
			Strength:       "trend extrapolation",
		},
	}
}

// DefaultQueries returns the built-in base queries.
func DefaultQueries() []types.QueryVariant {
	return []types.QueryVariant{
		{
			ID:     "q_urban_transport",
			Text:   "How might we improve urban transportation in the next decade?",
			Origin: types.OriginBase,
		},
		{
			ID:     "q_education",
			Text:   "How might we redesign education systems to better prepare students for future challenges?",
			Origin: types.OriginBase,
		},
		{
			ID:     "q_healthcare",
			Text:   "How might we make healthcare more accessible and affordable for everyone?",
			Origin: types.OriginBase,
		},
		{
			ID:     "q_climate",
			Text:   "How might we accelerate the transition to sustainable energy sources?",
			Origin: types.OriginBase,
		},
		{
			ID:     "q_food",
			Text:   "How might we transform food systems to be more sustainable and equitable?",
			Origin: types.OriginBase,
		},
	}
}

// DefaultDomains returns the built-in domain catalog.
func DefaultDomains() []types.Domain {
	return []types.Domain{
		{
			ID:          "domain_urban_planning",
			Name:        "Urban Planning",
			Description: "The interdisciplinary field concerned with the development of urban areas, including transportation systems, land use, and public spaces.",
			Keywords:    []string{"urban planning", "city development", "urban design", "transportation", "mobility", "land use", "zoning", "public spaces", "infrastructure"},
		},
		{
			ID:          "domain_education",
			Name:        "Education",
			Description: "The field focused on teaching and learning processes, educational systems, and pedagogy across various age groups and contexts.",
			Keywords:    []string{"education", "learning", "teaching", "pedagogy", "curriculum", "schools", "universities", "educational technology", "e-learning"},
		},
		{
			ID:          "domain_healthcare",
			Name:        "Healthcare",
			Description: "The organized provision of medical care to individuals or communities, including prevention, diagnosis, treatment, and management of illness.",
			Keywords:    []string{"healthcare", "medicine", "public health", "medical care", "wellness", "disease prevention", "telehealth", "health systems", "patient care"},
		},
		{
			ID:          "domain_sustainability",
			Name:        "Sustainability",
			Description: "The study and practice of meeting human needs without compromising the ability of future generations to meet their own needs.",
			Keywords:    []string{"sustainability", "environment", "climate change", "renewable energy", "conservation", "green technology", "circular economy", "eco-friendly"},
		},
		{
			ID:          "domain_technology",
			Name:        "Technology Innovation",
			Description: "The field focused on developing and implementing new technologies to solve existing problems and create new possibilities.",
			Keywords:    []string{"technology", "innovation", "digital transformation", "emerging tech", "smart systems", "artificial intelligence", "IoT", "blockchain", "robotics"},
		},
	}
}

// DefaultScoring returns the built-in criteria configuration. Weights
// sum to 1 here, but the scoring engine normalizes regardless.
func DefaultScoring() types.ScoringConfig {
	return types.ScoringConfig{
		Criteria: map[string]types.CriterionConfig{
			"novelty": {
				Description: "Lexical distance from sibling results",
				Weight:      0.30,
				Function:    "novelty",
			},
			"feasibility": {
				Description: "Grounding in the domain vocabulary",
				Weight:      0.25,
				Function:    "feasibility",
			},
			"specificity": {
				Description: "Concrete detail density",
				Weight:      0.15,
				Function:    "specificity",
			},
			"comprehensiveness": {
				Description: "Coverage and structural development",
				Weight:      0.20,
				Function:    "comprehensiveness",
			},
			"clarity": {
				Description: "Readable sentence construction",
				Weight:      0.10,
				Function:    "clarity",
			},
		},
	}
}
