package twitter

// TweetRequest is the body of POST /2/tweets. At most one of Media and Poll is set.
type TweetRequest struct {
	Text  string `json:"text"`
	Media *Media `json:"media,omitempty"`
	Poll  *Poll  `json:"poll,omitempty"`
	Reply *Reply `json:"reply,omitempty"`
}

type Media struct {
	MediaIDs []string `json:"media_ids"`
}

type Poll struct {
	Options         []string `json:"options"`
	DurationMinutes int      `json:"duration_minutes"`
}

type Reply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type Tweet struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type tweetResponse struct {
	Data Tweet `json:"data"`
}

type tweetsResponse struct {
	Data []Tweet `json:"data"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

type mediaResponse struct {
	MediaID       int64  `json:"media_id"`
	MediaIDString string `json:"media_id_string"`
}

// apiError covers both the v2 problem format and the v1.1 errors array.
type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"errors"`
}

func (e apiError) String() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Title != "" {
		return e.Title
	}
	if len(e.Errors) > 0 {
		return e.Errors[0].Message
	}
	return ""
}
