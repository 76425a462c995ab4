package semqa

import (
	"fmt"
	"strings"
)

const answerTemplate = "Bạn là trợ lý tiếng Việt, trả lời ngắn gọn, chính xác.\n" +
	"Câu hỏi người dùng: {question}\n" +
	"Câu trả lời đề xuất từ cơ sở tri thức: {candidate}\n\n" +
	"Hãy diễn đạt lại câu trả lời cuối cùng bằng tiếng Việt rõ ràng, nếu không đủ thông tin thì nói: \"Không đủ thông tin để trả lời.\""

const critiqueTemplate = "Bạn là người kiểm chứng chỉ dựa vào dữ liệu {dataset} được cung cấp.\n" +
	"QUAN TRỌNG: Chỉ sử dụng thông tin từ dataset {dataset}, KHÔNG sử dụng kiến thức bên ngoài.\n\n" +
	"- Kiểm tra xem câu trả lời đề xuất có phù hợp với câu hỏi hay không.\n" +
	"- Nếu có điểm mơ hồ/không rõ ràng, hãy chỉ ra ngắn gọn.\n" +
	"- Viết \"Đáp án cuối\" bằng 1 câu ngắn gọn dựa CHỈ trên dữ liệu {dataset}.\n" +
	"- Nếu không đủ thông tin từ dataset, trả lời: \"Không đủ thông tin trong dataset để trả lời.\"\n\n" +
	"Câu hỏi: {question}\n" +
	"Câu trả lời đề xuất từ dataset: {candidate}\n\n" +
	"Phản biện (chỉ dựa vào dataset {dataset}):\n" +
	"Đáp án cuối:"

// fillTemplate substitutes {name} placeholders in a single pass so values
// containing braces are left untouched.
func fillTemplate(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// AnswerPrompt asks the model to rephrase the knowledge-base answer.
func AnswerPrompt(question, candidate string) string {
	return fillTemplate(answerTemplate, map[string]string{"question": question, "candidate": candidate})
}

// CritiquePrompt asks the model to verify candidate against the dataset and
// end with an "Đáp án cuối" line.
func CritiquePrompt(datasetName, question, candidate string) string {
	return fillTemplate(critiqueTemplate, map[string]string{
		"dataset":   datasetName,
		"question":  question,
		"candidate": candidate,
	})
}

// ContextBlock describes where the candidate answer came from.
func ContextBlock(source, matched string, score float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nguồn dữ liệu: %s\n", source)
	fmt.Fprintf(&b, "Câu hỏi gốc trong dataset: %s\n", matched)
	fmt.Fprintf(&b, "Độ tin cậy semantic: %.3f\n\n", score)
	return b.String()
}

// BaselineText is shown in place of the critique when no critic ran.
func BaselineText(candidate string) string {
	return "(Baseline) Đáp án cuối: " + candidate
}
