package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

// AIService membangun prompt dari menu yang tersedia, memanggil language
// model, lalu memvalidasi dan memperbaiki output terstrukturnya terhadap
// katalog. Kegagalan model tidak pernah diteruskan ke caller: jawaban selalu
// well-formed lewat fallback deterministik.
type AIService struct {
	DB  *gorm.DB
	llm ChatCompleter
}

func NewAIService(db *gorm.DB, llm ChatCompleter) *AIService {
	return &AIService{DB: db, llm: llm}
}

// Recommendation adalah kontrak respons rekomendasi menu.
type Recommendation struct {
	Intro           string        `json:"intro"`
	Recommendations []models.Menu `json:"recommendations"`
	Closing         string        `json:"closing"`
}

type aiReply struct {
	Intro           string `json:"intro"`
	Recommendations []uint `json:"recommendations"`
	Closing         string `json:"closing"`
}

// Aturan fallback kata kunci atas nama kategori, dipakai kalau model tidak
// mengembalikan JSON yang valid.
var fallbackRules = []struct {
	keywords   []string
	categories []string
}{
	{[]string{"minuman", "dingin", "es", "jus"}, []string{"Minuman Dingin", "Jus"}},
	{[]string{"kuah", "sop", "soto"}, []string{"Soto & Sop"}},
}

const fallbackLimit = 4

// Recommend menjawab pesan customer dengan daftar rekomendasi terbatas yang
// hanya berisi menu yang sedang tersedia.
func (s *AIService) Recommend(customerMessage string) (*Recommendation, error) {
	var menus []models.Menu
	err := s.DB.
		Preload("Category").
		Where("is_available = ?", true).
		Find(&menus).Error
	if err != nil {
		return nil, err
	}

	reply := s.askModel(customerMessage, menus)

	// Expand id ke objek menu lengkap; id yang tidak dikenal atau tidak
	// tersedia di-drop diam-diam, tidak pernah jadi error
	recommended := make([]models.Menu, 0, len(reply.Recommendations))
	for _, id := range reply.Recommendations {
		for _, m := range menus {
			if m.ID == id {
				recommended = append(recommended, m)
				break
			}
		}
	}

	return &Recommendation{
		Intro:           reply.Intro,
		Recommendations: recommended,
		Closing:         reply.Closing,
	}, nil
}

func (s *AIService) askModel(customerMessage string, menus []models.Menu) aiReply {
	response, err := s.llm.ChatWithSystem(buildSystemPrompt(menus), customerMessage, ChatOptions{
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		utils.ErrorLogger.Printf("language model call failed, using fallback: %v", err)
		return keywordFallback(customerMessage, menus)
	}

	var reply aiReply
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &reply); err != nil {
		utils.ErrorLogger.Printf("failed to parse language model response, using fallback: %v", err)
		return keywordFallback(customerMessage, menus)
	}
	return reply
}

func buildSystemPrompt(menus []models.Menu) string {
	var menuContext strings.Builder
	for _, m := range menus {
		menuContext.WriteString(fmt.Sprintf("- [%d] %s (%s) - %s\n",
			m.ID, m.Name, m.Category.Name, utils.FormatRupiah(m.Price)))
	}

	return fmt.Sprintf(`Anda adalah asisten restoran Ordira yang membantu pelanggan memilih menu.

MENU YANG TERSEDIA:
%s
TUGAS ANDA:
1. Baca permintaan pelanggan dengan cermat
2. Pilih 2-5 menu yang paling sesuai dari daftar menu di atas
3. Berikan response dalam format JSON STRICT dengan struktur:
{"intro": "Kalimat pembuka yang ramah (1-2 kalimat)", "recommendations": [1, 2, 3], "closing": "Kalimat penutup yang mengajak bertindak (1 kalimat)"}

ATURAN:
- "recommendations": array berisi ID menu (angka), pilih 2-5 menu
- Hanya rekomendasikan menu yang ADA di daftar menu
- Response HARUS valid JSON, tidak ada teks tambahan
- Jangan gunakan markdown code block`, menuContext.String())
}

// stripCodeFences membuang pembungkus ``` atau ```json sebelum parsing.
func stripCodeFences(response string) string {
	clean := strings.TrimSpace(response)
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```json")
		clean = strings.TrimPrefix(clean, "```")
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	}
	return strings.TrimSpace(clean)
}

// keywordFallback memilih menu lewat pencocokan kata kunci atas nama
// kategori; tanpa kecocokan, ambil 3 menu pertama yang tersedia.
func keywordFallback(message string, menus []models.Menu) aiReply {
	lowered := strings.ToLower(message)

	for _, rule := range fallbackRules {
		matched := false
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		var ids []uint
		for _, m := range menus {
			for _, cat := range rule.categories {
				if strings.Contains(strings.ToLower(m.Category.Name), strings.ToLower(cat)) {
					ids = append(ids, m.ID)
					break
				}
			}
			if len(ids) == fallbackLimit {
				break
			}
		}
		if len(ids) > 0 {
			return aiReply{
				Intro:           "Terima kasih atas pertanyaan Anda! Ini beberapa pilihan yang cocok:",
				Recommendations: ids,
				Closing:         "Silakan pilih menu yang Anda suka!",
			}
		}
	}

	var ids []uint
	for i := 0; i < len(menus) && i < 3; i++ {
		ids = append(ids, menus[i].ID)
	}
	return aiReply{
		Intro:           "Terima kasih atas pertanyaan Anda!",
		Recommendations: ids,
		Closing:         "Silakan pilih menu yang Anda suka!",
	}
}
