package model

// ==================== 领域 (Niche) ====================

// Niche 内容领域，决定文案语气与主题
type Niche string

const (
	NicheWebDevelopment Niche = "Web Development"
	NicheLeadGeneration Niche = "Lead Generation"
	NicheAISolutions    Niche = "AI Solutions"
	NicheCEODiary       Niche = "CEO Diary"
	NicheLatestNews     Niche = "Latest News"
)

// ==================== 图片风格 ====================

// ImageStyle 图片风格，决定图片提示词模板
type ImageStyle string

const (
	StyleMinimal         ImageStyle = "Minimal"
	Style3DArt           ImageStyle = "3D Art"
	StyleBoldTypographic ImageStyle = "Bold Typographic"
	StyleRealistic       ImageStyle = "Realistic"
	Style3DNewspaper     ImageStyle = "3D Newspaper"
)

// CatalogOption 前端选择项
type CatalogOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Niches 领域目录 (顺序即展示顺序)
var Niches = []CatalogOption{
	{Value: string(NicheWebDevelopment), Label: "Web Development", Icon: "code", Description: "Code, frameworks, and best practices."},
	{Value: string(NicheLeadGeneration), Label: "Lead Generation", Icon: "filter", Description: "Strategies to attract and convert leads."},
	{Value: string(NicheAISolutions), Label: "AI Solutions", Icon: "brain-circuit", Description: "Cutting-edge AI and machine learning."},
	{Value: string(NicheCEODiary), Label: "CEO Diary", Icon: "book-user", Description: "Insights from the life of a CEO."},
	{Value: string(NicheLatestNews), Label: "Latest News", Icon: "newspaper", Description: "Breaking news and current events."},
}

// ImageStyles 风格目录
var ImageStyles = []CatalogOption{
	{Value: string(StyleMinimal), Label: "Minimal", Icon: "slice", Description: "Clean, simple, and elegant design."},
	{Value: string(Style3DArt), Label: "3D Art", Icon: "box", Description: "Vibrant and eye-catching 3D graphics."},
	{Value: string(StyleBoldTypographic), Label: "Bold Typographic", Icon: "bold", Description: "Text-focused, impactful, and modern."},
	{Value: string(StyleRealistic), Label: "Realistic", Icon: "image", Description: "Photorealistic images of your niche."},
	{Value: string(Style3DNewspaper), Label: "3D Newspaper", Icon: "newspaper", Description: "Headline-style 3D newspaper graphics."},
}

func (n Niche) Valid() bool {
	return inCatalog(Niches, string(n))
}

func (s ImageStyle) Valid() bool {
	return inCatalog(ImageStyles, string(s))
}

// IsNews 新闻领域按标题格式生成
func (n Niche) IsNews() bool {
	return n == NicheLatestNews
}

func inCatalog(options []CatalogOption, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// ==================== 轮播帖 ====================

// CarouselPost 文案与图片按下标配对
type CarouselPost struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

// ZipPosts 将文案与图片按下标组合，长度不一致时返回 false
func ZipPosts(contents, images []string) ([]CarouselPost, bool) {
	if len(contents) != len(images) {
		return nil, false
	}
	posts := make([]CarouselPost, len(contents))
	for i := range contents {
		posts[i] = CarouselPost{Content: contents[i], Image: images[i]}
	}
	return posts, true
}
