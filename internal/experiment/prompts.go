package experiment

import (
	"fmt"
	"strings"
)

const baselineTemplate = "Hãy trả lời câu hỏi sau một cách ngắn gọn và chính xác: %s"

const critiqueTemplate = `
Bạn là một trợ lý AI cẩn trọng, luôn kiểm tra lại thông tin.
Nhiệm vụ của bạn là trả lời câu hỏi sau bằng quy trình 3 bước.

Câu hỏi: %s

---
[BẮT ĐẦU QUY TRÌNH]

**Bước 1: Câu trả lời ban đầu:**
[Hãy tạo câu trả lời ban đầu của bạn ở đây]

**Bước 2: Tự phản biện:**
[Hãy xem xét lại câu trả lời ở Bước 1. Nó có chính xác không? Có "hallucinate" điểm nào không? Có thể cải thiện ở đâu?]

**Bước 3: Câu trả lời cuối cùng (đã xác minh):**
[Dựa trên phản biện ở Bước 2, hãy đưa ra câu trả lời cuối cùng, chính xác nhất.]
`

// BaselinePrompt is the direct short-answer instruction.
func BaselinePrompt(question string) string {
	return fmt.Sprintf(baselineTemplate, question)
}

// CritiquePrompt asks for an initial answer, a self-critique and a verified
// final answer under a "Bước 3" heading.
func CritiquePrompt(question string) string {
	return fmt.Sprintf(critiqueTemplate, question)
}

// ErrorMarker is the visible answer recorded when a model call fails.
func ErrorMarker(err error) string {
	return fmt.Sprintf("[LỖI: %v]", err)
}

// IsErrorMarker reports whether answer was produced by ErrorMarker.
func IsErrorMarker(answer string) bool {
	return strings.HasPrefix(answer, "[LỖI: ") && strings.HasSuffix(answer, "]")
}
