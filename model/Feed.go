package model

// ReplyView is a reply with its author. Hydration stops here: replies of
// replies are never loaded.
type ReplyView struct {
	Reply
	Author *User `json:"user"`
}

// TweetView is a tweet with its author, favorites and replies.
// Favorited is computed for the requesting user.
type TweetView struct {
	Tweet
	Author        *User       `json:"user"`
	Favorites     []Favorite  `json:"favorites"`
	FavoriteCount int         `json:"favorites_count"`
	Favorited     bool        `json:"favorited"`
	Replies       []ReplyView `json:"replies"`
	ReplyCount    int         `json:"replies_count"`
}

type FavoriteView struct {
	Favorite
	Tweet *TweetView `json:"tweet"`
}

// Profile is the shape shared by "me" and "view other user" pages.
type Profile struct {
	User
	Tweets    []TweetView    `json:"tweets"`
	Following []User         `json:"following"`
	Followers []User         `json:"followers"`
	Favorites []FavoriteView `json:"favorites"`
}
