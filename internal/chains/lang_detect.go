package chains

import "github.com/cloudwego/eino/schema"

const langDetectSystemPrompt = "You are a linguist who is proficient in languages from all over the world. " +
	"You need to recognize the content input by the user and output it in an international standard locale."

// LangDetect asks the model for the locale of content. The model is primed
// with two examples and is expected to answer with a bare locale tag.
func LangDetect(content string) Payload {
	return Payload{
		Messages: []*schema.Message{
			schema.SystemMessage(langDetectSystemPrompt),
			schema.UserMessage("{你好}"),
			schema.AssistantMessage("zh-CN", nil),
			schema.UserMessage("{hello}"),
			schema.AssistantMessage("en-US", nil),
			schema.UserMessage("{" + content + "}"),
		},
	}
}
