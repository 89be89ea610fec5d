// Package socialpb holds the wire types and service description of the
// social.SocialService gRPC API. Messages travel as JSON using the codec
// registered by this package under the "json" content subtype.
package socialpb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"social-graph/model"
)

const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals proto messages (emptypb.Empty and friends) with protojson and
// plain structs with encoding/json.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}

type PingRequest struct{}

type PingResponse struct {
	Message string `json:"message"`
}

type FollowRequest struct {
	FollowerId string `json:"follower_id"`
	FolloweeId string `json:"followee_id"`
}

type UserRequest struct {
	UserId string `json:"user_id"`
}

type IdsResponse struct {
	Ids []string `json:"ids"`
}

type IsFollowingResponse struct {
	Following bool `json:"following"`
}

type FavoriteRequest struct {
	UserId  string `json:"user_id"`
	TweetId string `json:"tweet_id"`
}

type FavoriteResponse struct {
	Favorite *model.Favorite `json:"favorite"`
}

type IsFavoritedResponse struct {
	Favorited bool `json:"favorited"`
}

type TimelineResponse struct {
	Tweets []model.TweetView `json:"tweets"`
}

type ProfileRequest struct {
	ViewerId string `json:"viewer_id"`
	Username string `json:"username"`
}

type ProfileResponse struct {
	Profile *model.Profile `json:"profile"`
}

type UsersToFollowRequest struct {
	UserId string `json:"user_id"`
	Limit  int32  `json:"limit"`
}

type UsersResponse struct {
	Users []model.User `json:"users"`
}

type PostTweetRequest struct {
	UserId string `json:"user_id"`
	Body   string `json:"body"`
}

type TweetResponse struct {
	Tweet *model.Tweet `json:"tweet"`
}

type ReplyRequest struct {
	UserId  string `json:"user_id"`
	TweetId string `json:"tweet_id"`
	Body    string `json:"body"`
}

type ReplyResponse struct {
	Reply *model.Reply `json:"reply"`
}
