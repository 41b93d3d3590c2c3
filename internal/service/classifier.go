package service

import (
	"exam_practice_backend/internal/model"
	"sort"
	"strings"
	"unicode/utf8"
)

// trueFalseSynonyms 判断题选项文案的同义词集合
// 历史题库里同一含义存在多种写法，全部按判断题处理
var trueFalseSynonyms = map[string]bool{
	"正确": true, "错误": true,
	"对": true, "错": true,
	"是": true, "否": true,
	"√": true, "×": true,
}

// legacyTrueFalseMarker 旧版题库判断题题干中的全角括号占位符
const legacyTrueFalseMarker = "（"

// ClassifyQuestion 按选项/答案形态推断题型，规则按优先级依次判定：
//  1. 恰好两个选项且文案命中判断题同义词 → 判断题
//  2. 无选项但题干含全角括号占位 → 判断题（渲染时补出默认选项）
//  3. 答案长度大于1 → 多选题
//  4. 答案长度为1且选项数大于2 → 单选题
//  5. 其余 → unknown，不允许作答，留待人工清洗
//
// 规则1必须先于规则3/4：部分判断题答案长度也是1，靠同义词判定才能
// 让前端选对交互控件
func ClassifyQuestion(opts []model.QuestionOption, content, answer string) model.QuestionType {
	if len(opts) == 2 {
		for _, o := range opts {
			if trueFalseSynonyms[strings.TrimSpace(o.Text)] {
				return model.TrueOrFalse
			}
		}
	}

	if len(opts) == 0 && strings.Contains(content, legacyTrueFalseMarker) {
		return model.TrueOrFalse
	}

	// 按字符数而非字节数判定，历史数据里存在 √/× 等多字节标号
	answerLen := utf8.RuneCountInString(strings.TrimSpace(answer))
	if answerLen > 1 {
		return model.MultipleChoice
	}
	if answerLen == 1 && len(opts) > 2 {
		return model.SingleChoice
	}

	return model.UnknownType
}

// SynthesizedTrueFalseOptions 为不存选项的判断题补出默认选项对
func SynthesizedTrueFalseOptions() []model.QuestionOption {
	return []model.QuestionOption{
		{Label: "A", Text: "正确"},
		{Label: "B", Text: "错误"},
	}
}

// EffectiveOptions 返回用于渲染和校验的选项：判断题缺选项时用默认对补齐
func EffectiveOptions(opts []model.QuestionOption, qt model.QuestionType) []model.QuestionOption {
	if len(opts) == 0 && qt == model.TrueOrFalse {
		return SynthesizedTrueFalseOptions()
	}
	return opts
}

// CanonicalizeAnswer 规范化答案串：去空白，多字符时按标号升序重排
// 序列化两侧必须走同一套规范化，否则多选题顺序不同会误判
func CanonicalizeAnswer(answer string) string {
	answer = strings.TrimSpace(answer)
	if len(answer) <= 1 {
		return answer
	}
	labels := strings.Split(answer, "")
	sort.Strings(labels)
	return strings.Join(labels, "")
}

// CanonicalizeSelection 将选中的标号集合序列化成规范答案串
func CanonicalizeSelection(labels []string) string {
	cleaned := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l != "" {
			cleaned = append(cleaned, l)
		}
	}
	sort.Strings(cleaned)
	return strings.Join(cleaned, "")
}

// IsAnswerCorrect 比较用户作答与规范答案
// 空作答永远不正确；unknown 题型不参与判分
func IsAnswerCorrect(userAnswer, canonicalAnswer string, qt model.QuestionType) bool {
	userAnswer = strings.TrimSpace(userAnswer)
	if userAnswer == "" || qt == model.UnknownType {
		return false
	}

	switch qt {
	case model.MultipleChoice:
		return CanonicalizeAnswer(userAnswer) == CanonicalizeAnswer(canonicalAnswer)
	default:
		return userAnswer == strings.TrimSpace(canonicalAnswer)
	}
}

// ValidateAnswerLabels 校验作答只使用了存在的选项标号
func ValidateAnswerLabels(answer string, opts []model.QuestionOption) bool {
	labelSet := make(map[string]bool, len(opts))
	for _, o := range opts {
		labelSet[o.Label] = true
	}
	for _, ch := range strings.TrimSpace(answer) {
		if !labelSet[string(ch)] {
			return false
		}
	}
	return true
}
