package service

import (
	"fmt"
	"strings"

	"carousel_studio_v1/internal/model"
)

// ==================== 提示词构建 ====================

// PromptBuilder 构建文案、标题与图片提示词
// Brand 与 Signature 来自配置，其余文字固定
type PromptBuilder struct {
	Brand     string
	Signature string
}

// NewPromptBuilder 创建提示词构建器
func NewPromptBuilder(brand, signature string) *PromptBuilder {
	if brand == "" {
		brand = "SAASNEXT"
	}
	if signature == "" {
		signature = "Deepak Bagada"
	}
	return &PromptBuilder{Brand: brand, Signature: signature}
}

// BuildContentPrompt 文案提示词
func (b *PromptBuilder) BuildContentPrompt(niche model.Niche, userIdeas string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `You are a senior copywriter expert, a master of crafting highly persuasive and engaging content for the %s brand, which is inspired by clean, high-impact Swiss design. Your writing must be flawless, strategic, and compelling.

Generate exactly %d different post content options based on the selected niche. Each option must be a masterpiece of brevity and impact, strictly following these rules:
1. A powerful, irresistible hook (3-5 words) that stops the scroll.
2. A crystal-clear, concise message (10-15 words) that delivers immediate value.
3. A strong, action-oriented call-to-action (CTA) (3-5 words) that drives engagement.

CRITICAL INSTRUCTIONS:
- The total text for each option must be extremely brief and punchy, suitable for a visually-driven graphic.
- There must be absolutely NO spelling mistakes. Your reputation as an expert depends on it.
- Do NOT include any hashtags, links, URLs, or quotation marks in your output. Adhere strictly to this rule.
- Ensure the output is a valid JSON object with a 'contentOptions' key containing an array of %d strings.

Niche: %s
`, b.Brand, ContentOptionCount, ContentOptionCount, niche)

	if niche.IsNews() {
		sb.WriteString(`When the niche is "Latest News", format the content as a bold, punchy news headline that feels urgent and important.
`)
	}

	if ideas := strings.TrimSpace(userIdeas); ideas != "" {
		fmt.Fprintf(&sb, `
The user has provided some ideas. First, analyze their input like a senior strategist to identify the core topics and underlying intent. Then, use those insights to generate exceptionally creative and engaging post content that elevates their original thoughts into expert-level copy.
User Ideas: %s
`, ideas)
	}

	sb.WriteString(`
The carousel post content options should be tailored to the specified niche and designed for maximum engagement and authority.
`)
	return sb.String()
}

// BuildCaptionPrompt 整体标题提示词
func (b *PromptBuilder) BuildCaptionPrompt(contents []string, niche model.Niche) string {
	var sb strings.Builder

	sb.WriteString(`You are a social media expert. Create a single, engaging social media caption for a carousel post that contains the following pieces of content.

The caption MUST follow this exact structure:
1. Start with a strong, attention-grabbing hook that summarizes the theme of the carousel.
2. Briefly introduce the topics covered in the slides.
3. End with exactly 3 relevant and trending hashtags for the given niche. Do not use the '#' symbol before the hashtags.

The content of the carousel slides is:
`)
	for _, c := range contents {
		fmt.Fprintf(&sb, "- \"%s\"\n", c)
	}

	fmt.Fprintf(&sb, "\nThe niche is: \"%s\"\n\nReturn the output as a JSON object with a 'caption' key.\n", string(niche))
	return sb.String()
}

// ==================== 图片提示词 ====================

type styleTemplate func(niche model.Niche) string

// styleTemplates 风格 -> 提示词后缀，目录外的风格没有模板
var styleTemplates = map[model.ImageStyle]styleTemplate{
	model.StyleBoldTypographic: func(model.Niche) string {
		return "Style: 'Bold Typographic'. This is a text-only masterpiece of graphic design. Emphasize a powerful grid system, masterful use of negative space, and expressive, bold sans-serif typography inspired by cutting-edge Swiss design. The layout must be dynamic, creating a clear visual hierarchy and a sense of movement. The composition should feel like a high-end art print."
	},
	model.Style3DArt: func(model.Niche) string {
		return "Style: '3D Art'. Generate a sophisticated, abstract 3D artistic render. The composition must be a masterpiece of digital art, following Swiss design principles with a clean, grid-based layout. Integrate complex, realistic lighting and soft shadows to give depth to abstract geometric or organic 3D shapes. The text must be elegantly integrated into the 3D scene as if it were a physical object within the composition."
	},
	model.StyleMinimal: func(model.Niche) string {
		return "Style: 'Minimal'. Design an ultra-minimalist and elegant graphic masterpiece inspired by high-end Swiss design. The focus is on extreme use of negative space, a mathematically precise grid layout, and crisp, light sans-serif typography. Include only the most essential elements, placed with artistic precision to convey the message with quiet confidence and sophistication."
	},
	model.StyleRealistic: func(niche model.Niche) string {
		return fmt.Sprintf("Style: 'Realistic'. Generate a hyper-realistic, professional, masterpiece photograph relevant to the niche of \"%s\". The image must have a cinematic quality, with perfect lighting and composition, while adhering to the specified artistic color palette (black, orange, white). The text should be seamlessly and accurately integrated into the photograph in an elegant, modern, and highly readable font, as if it were part of the original scene.", string(niche))
	},
	model.Style3DNewspaper: func(model.Niche) string {
		return "Style: '3D Newspaper'. Create a dramatic, artistic 3D render of a newspaper. The text should be the main headline, designed with a bold, attention-grabbing font. The newspaper itself should be rendered with photorealistic textures, showing the paper grain and slightly aged look, with columns of blurred placeholder text to simulate a real newspaper layout. Use dynamic, cinematic lighting to cast soft shadows, enhancing the 3D effect and creating a masterpiece of visual storytelling."
	},
}

// BuildImagePrompt 单张图片提示词 = 基础提示词 + 风格后缀
func (b *PromptBuilder) BuildImagePrompt(text string, style model.ImageStyle, niche model.Niche) (string, error) {
	tmpl, ok := styleTemplates[style]
	if !ok {
		return "", fmt.Errorf("unsupported image style: %q", style)
	}

	base := fmt.Sprintf(`Create an artistic, masterpiece-level social media graphic with a 2:3 aspect ratio. The color palette is strictly limited to dark black, vibrant dark orange, and pure white for text. The design must be ultra-modern, professional, and impactful. A small, subtle signature "Designer: %s" must be in a bottom corner. The graphic must prominently feature the following text, and ONLY this text, with no spelling mistakes: "%s".`, b.Signature, text)

	return base + " " + tmpl(niche), nil
}
