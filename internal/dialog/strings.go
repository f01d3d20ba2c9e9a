package dialog

// User-facing strings and keyboard labels. Kept in one table so a
// translation pass only ever touches this file.

const (
	msgIdleHint        = "Use /post to write an anonymous post, or open a post's comments from the channel."
	msgAskBody         = "Write your post. You can send text, a photo, a video, a document, an audio file or a voice message."
	msgAskCaption      = "Add a caption for your media, or press Skip."
	msgChooseTopic     = "Choose a topic for your post."
	msgUnknownTopic    = "Please pick one of the topics on the keyboard."
	msgConfirmHint     = "Here is your post. Submit it, format the text, edit it or cancel."
	msgChooseFormat    = "Choose a text style, or go back."
	msgCancelled       = "Cancelled. Nothing was posted."
	msgMustJoin        = "You need to join the group before you can post. Join and try again."
	msgPublishFailed   = "Couldn't publish your post right now. Please try Submit again."
	msgPosted          = "Your post is published. It stays anonymous."
	msgEmptyDraft      = "There is nothing to post yet. Send some text or media first."
	msgGone            = "That post or comment no longer exists."
	msgCommentPrompt   = "Write an anonymous comment. Text or media both work."
	msgCommentPreview  = "Your comment will look like this. Send it, edit it or cancel."
	msgCommentAdded    = "Your comment was added anonymously."
	msgReplyPrompt     = "Write your reply. Text or media both work."
	msgReplyAdded      = "Your reply was added anonymously."
	msgReactionAdded   = "Reaction added"
	msgReactionRemoved = "Reaction removed"
)

// Reply-keyboard labels. Matching is case-insensitive on incoming text.
const (
	labelEdit      = "Edit"
	labelFormat    = "Format"
	labelSubmit    = "Submit"
	labelCancel    = "Cancel"
	labelSend      = "Send"
	labelSkip      = "Skip"
	labelBold      = "Bold"
	labelItalic    = "Italic"
	labelMonospace = "Monospace"
	labelBack      = "Back"
)

var (
	confirmKeyboard        = [][]string{{labelSubmit, labelFormat}, {labelEdit, labelCancel}}
	formatKeyboard         = [][]string{{labelBold, labelItalic, labelMonospace}, {labelBack}}
	confirmCommentKeyboard = [][]string{{labelSend, labelEdit, labelCancel}}
	captionKeyboard        = [][]string{{labelSkip}}
)
