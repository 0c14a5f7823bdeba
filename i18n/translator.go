package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "property").
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
		case "required":
			return "必須プロパティが不足しています"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "pattern":
			return "パターンに一致しません"
		case "invalid_enum":
			return "列挙値のいずれにも一致しません"
		case "invalid_const":
			return "定数値に一致しません"
		case "false_schema":
			return "スキーマ false はいかなる値も許可しません"
		case "one_of_not_valid":
			return "どの候補スキーマにも一致しません"
		case "one_of_multiple_valid":
			return "複数の候補スキーマに一致します"
		case "invalid_discriminator":
			return "discriminator の定義が不正です"
		case "ref_unresolved":
			return "$ref を解決できません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required property missing"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "pattern":
			return "does not match pattern"
		case "invalid_enum":
			return "not one of the allowed values"
		case "invalid_const":
			return "does not equal the constant"
		case "false_schema":
			return "schema false allows nothing"
		case "one_of_not_valid":
			return "matches none of the alternatives"
		case "one_of_multiple_valid":
			return "matches more than one alternative"
		case "invalid_discriminator":
			return "malformed discriminator"
		case "ref_unresolved":
			return "unresolvable $ref"
		case "parse_error":
			return "parse error"
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
