package ask

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	msgEmptyRequest     = "Please provide an image or a question."
	msgInvalidImage     = "The uploaded file is not a supported image."
	msgNotFound         = "Group not found."
	msgNoMembers        = "This group has no registered members."
	msgNotConfigured    = "System error: the AI API key is not configured."
	msgImageUnavailable = "Error: the group photo data is corrupted."
	msgModelError       = "An error occurred while processing with AI. Please wait a moment and try again."
	msgUnparseable      = "Could not interpret the response from the AI."
	msgNoResult         = "Could not get an analysis result."
	msgStoreError       = "A system error occurred. Please try again later."
)

var japanese = map[string]string{
	msgEmptyRequest:     "画像または質問を入力してください。",
	msgInvalidImage:     "アップロードされたファイルは対応している画像ではありません。",
	msgNotFound:         "グループ情報が見つかりません。",
	msgNoMembers:        "このグループにはメンバーが登録されていません。",
	msgNotConfigured:    "システムエラー: AIのAPIキーが設定されていません。",
	msgImageUnavailable: "エラー: グループ写真のデータが破損しています。",
	msgModelError:       "AIの処理中にエラーが発生しました。しばらく待ってから再度お試しください。",
	msgUnparseable:      "AIからの応答を解析できませんでした。",
	msgNoResult:         "解析結果を取得できませんでした。",
	msgStoreError:       "システムエラーが発生しました。しばらく待ってから再度お試しください。",
}

var outcomeMessages = map[Outcome]string{
	OutcomeInvalidInput:     msgEmptyRequest,
	OutcomeNotFound:         msgNotFound,
	OutcomeNoMembers:        msgNoMembers,
	OutcomeNotConfigured:    msgNotConfigured,
	OutcomeImageUnavailable: msgImageUnavailable,
	OutcomeModelError:       msgModelError,
	OutcomeUnparseable:      msgUnparseable,
	OutcomeStoreError:       msgStoreError,
}

var (
	messageCatalog  = newCatalog()
	supportedLocale = language.NewMatcher([]language.Tag{language.Japanese, language.English})
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range japanese {
		b.SetString(language.Japanese, key, text)
		b.SetString(language.English, key, key)
	}
	return b
}

// Messages renders user-facing texts in one locale.
type Messages struct {
	tag     language.Tag
	printer *message.Printer
}

// NewMessages picks the closest supported locale, Japanese when nothing matches.
func NewMessages(locale string) *Messages {
	tag := language.Japanese
	if locale != "" {
		matched, _ := language.MatchStrings(supportedLocale, locale)
		if base, _ := matched.Base(); base.String() == "en" {
			tag = language.English
		}
	}
	return &Messages{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messageCatalog)),
	}
}

// Locale returns the active locale, "ja" or "en".
func (m *Messages) Locale() string {
	return m.tag.String()
}

// Language returns the reply language named in prompts.
func (m *Messages) Language() string {
	if m.tag == language.English {
		return LanguageEnglish
	}
	return LanguageJapanese
}

// For returns the fixed message for a failure outcome.
func (m *Messages) For(outcome Outcome) string {
	key, ok := outcomeMessages[outcome]
	if !ok {
		key = msgModelError
	}
	return m.printer.Sprintf(key)
}

// InvalidImage is shown when an upload is not an image.
func (m *Messages) InvalidImage() string {
	return m.printer.Sprintf(msgInvalidImage)
}

// NoResult is shown when the model identified nobody and gave no reply.
func (m *Messages) NoResult() string {
	return m.printer.Sprintf(msgNoResult)
}
