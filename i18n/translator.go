package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "limit" or "model").
type Translator interface {
	Message(code string, data map[string]string) string
}

var catalogs = map[string]map[string]string{
	"en": {
		"missing":                 "Field required",
		"null_not_allowed":        "none is not an allowed value",
		"extra_forbidden":         "Extra inputs are not permitted",
		"frozen_instance":         "Instance is frozen",
		"unhashable_type":         "unhashable type",
		"parse_error":             "Invalid input, unable to decode",
		"duplicate_key":           "duplicate key",
		"truncated":               "input exceeds the size limit",
		"string_type":             "Input should be a valid string",
		"int_type":                "Input should be a valid integer",
		"int_parsing":             "Input should be a valid integer, unable to parse string as an integer",
		"int_from_float":          "Input should be a valid integer, got a number with a fractional part",
		"float_type":              "Input should be a valid number",
		"float_parsing":           "Input should be a valid number, unable to parse string as a number",
		"bool_type":               "Input should be a valid boolean",
		"bool_parsing":            "Input should be a valid boolean, unable to interpret input",
		"list_type":               "Input should be a valid list",
		"tuple_type":              "Input should be a valid tuple",
		"dict_type":               "Input should be a valid dictionary",
		"model_type":              "Input should be a valid dictionary or instance of {model}",
		"greater_than":            "Input should be greater than {limit}",
		"greater_than_equal":      "Input should be greater than or equal to {limit}",
		"less_than":               "Input should be less than {limit}",
		"less_than_equal":         "Input should be less than or equal to {limit}",
		"too_short":               "Value should have at least {limit} items",
		"too_long":                "Value should have at most {limit} items",
		"string_pattern_mismatch": "String should match pattern '{limit}'",
	},
	"ja": {
		"missing":          "必須フィールドが不足しています",
		"null_not_allowed": "null は許可されていません",
		"extra_forbidden":  "未知のキーです",
		"frozen_instance":  "インスタンスは変更できません",
		"parse_error":      "解析エラー",
		"duplicate_key":    "キーが重複しています",
		"truncated":        "打ち切られました",
		"string_type":      "文字列である必要があります",
		"int_type":         "整数である必要があります",
		"float_type":       "数値である必要があります",
		"bool_type":        "真偽値である必要があります",
		"too_short":        "短すぎます",
		"too_long":         "長すぎます",
	},
	"ko": {
		"missing":          "필수 필드입니다",
		"null_not_allowed": "None 값은 허용되지 않습니다",
		"extra_forbidden":  "추가 입력은 허용되지 않습니다",
		"frozen_instance":  "인스턴스가 고정되어 있습니다",
		"parse_error":      "입력을 해석할 수 없습니다",
		"duplicate_key":    "중복된 키입니다",
		"string_type":      "유효한 문자열이어야 합니다",
		"int_type":         "유효한 정수여야 합니다",
		"int_parsing":      "유효한 정수여야 합니다, 문자열을 정수로 변환할 수 없습니다",
		"int_from_float":   "유효한 정수여야 합니다, 소수 부분이 있는 숫자입니다",
		"float_type":       "유효한 숫자여야 합니다",
		"bool_type":        "유효한 불리언이어야 합니다",
		"list_type":        "유효한 리스트여야 합니다",
		"tuple_type":       "유효한 튜플이어야 합니다",
		"greater_than":     "{limit}보다 커야 합니다",
		"less_than_equal":  "{limit} 이하여야 합니다",
		"too_long":         "최대 {limit}개 항목까지 가능합니다",
	},
}

// dictTranslator is the built-in dictionary-based Translator. Codes missing
// from a language fall back to English, then to the code itself.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalogs[t.lang][code]
	if !ok {
		msg, ok = catalogs["en"][code]
	}
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja"/"ko").
func SetLanguage(lang string) {
	if _, ok := catalogs[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
