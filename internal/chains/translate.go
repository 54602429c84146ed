package chains

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
)

const translateSystemPrompt = "You are expert translator, your translated message is clear, concise and accurate"

// Translate asks the model to translate content into targetLang.
func Translate(content, targetLang string) Payload {
	return Payload{
		Messages: []*schema.Message{
			schema.SystemMessage(translateSystemPrompt),
			schema.UserMessage(fmt.Sprintf("Please translate following content as %s: %s", targetLang, content)),
		},
	}
}
