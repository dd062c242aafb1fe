package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "unknown_key":
			return "未知のキーです"
		case "required":
			return "必須フィールドが不足しています"
		case "validation":
			return "検証に失敗しました"
		case "extension":
			return "ドキュメント検証に失敗しました"
		case "schema_error":
			return "スキーマ定義が不正です"
		case "path_error":
			return "パスを解決できません"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "unknown_key":
			return "unknown key"
		case "required":
			return "required field missing"
		case "validation":
			return "validation failed"
		case "extension":
			return "document validation failed"
		case "schema_error":
			return "malformed schema declaration"
		case "path_error":
			return "path cannot be resolved"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
