package socialpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "social.SocialService"

const (
	SocialService_Ping_FullMethodName          = "/social.SocialService/Ping"
	SocialService_Follow_FullMethodName        = "/social.SocialService/Follow"
	SocialService_Unfollow_FullMethodName      = "/social.SocialService/Unfollow"
	SocialService_FollowingIds_FullMethodName  = "/social.SocialService/FollowingIds"
	SocialService_FollowerIds_FullMethodName   = "/social.SocialService/FollowerIds"
	SocialService_IsFollowing_FullMethodName   = "/social.SocialService/IsFollowing"
	SocialService_Favorite_FullMethodName      = "/social.SocialService/Favorite"
	SocialService_Unfavorite_FullMethodName    = "/social.SocialService/Unfavorite"
	SocialService_IsFavorited_FullMethodName   = "/social.SocialService/IsFavorited"
	SocialService_Timeline_FullMethodName      = "/social.SocialService/Timeline"
	SocialService_Me_FullMethodName            = "/social.SocialService/Me"
	SocialService_Profile_FullMethodName       = "/social.SocialService/Profile"
	SocialService_UsersToFollow_FullMethodName = "/social.SocialService/UsersToFollow"
	SocialService_PostTweet_FullMethodName     = "/social.SocialService/PostTweet"
	SocialService_Reply_FullMethodName         = "/social.SocialService/Reply"
)

type SocialServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Follow(context.Context, *FollowRequest) (*emptypb.Empty, error)
	Unfollow(context.Context, *FollowRequest) (*emptypb.Empty, error)
	FollowingIds(context.Context, *UserRequest) (*IdsResponse, error)
	FollowerIds(context.Context, *UserRequest) (*IdsResponse, error)
	IsFollowing(context.Context, *FollowRequest) (*IsFollowingResponse, error)
	Favorite(context.Context, *FavoriteRequest) (*FavoriteResponse, error)
	Unfavorite(context.Context, *FavoriteRequest) (*emptypb.Empty, error)
	IsFavorited(context.Context, *FavoriteRequest) (*IsFavoritedResponse, error)
	Timeline(context.Context, *UserRequest) (*TimelineResponse, error)
	Me(context.Context, *UserRequest) (*ProfileResponse, error)
	Profile(context.Context, *ProfileRequest) (*ProfileResponse, error)
	UsersToFollow(context.Context, *UsersToFollowRequest) (*UsersResponse, error)
	PostTweet(context.Context, *PostTweetRequest) (*TweetResponse, error)
	Reply(context.Context, *ReplyRequest) (*ReplyResponse, error)
}

// UnimplementedSocialServiceServer can be embedded to stay forward compatible
// when methods are added.
type UnimplementedSocialServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedSocialServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedSocialServiceServer) Follow(context.Context, *FollowRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("Follow")
}
func (UnimplementedSocialServiceServer) Unfollow(context.Context, *FollowRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("Unfollow")
}
func (UnimplementedSocialServiceServer) FollowingIds(context.Context, *UserRequest) (*IdsResponse, error) {
	return nil, unimplemented("FollowingIds")
}
func (UnimplementedSocialServiceServer) FollowerIds(context.Context, *UserRequest) (*IdsResponse, error) {
	return nil, unimplemented("FollowerIds")
}
func (UnimplementedSocialServiceServer) IsFollowing(context.Context, *FollowRequest) (*IsFollowingResponse, error) {
	return nil, unimplemented("IsFollowing")
}
func (UnimplementedSocialServiceServer) Favorite(context.Context, *FavoriteRequest) (*FavoriteResponse, error) {
	return nil, unimplemented("Favorite")
}
func (UnimplementedSocialServiceServer) Unfavorite(context.Context, *FavoriteRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("Unfavorite")
}
func (UnimplementedSocialServiceServer) IsFavorited(context.Context, *FavoriteRequest) (*IsFavoritedResponse, error) {
	return nil, unimplemented("IsFavorited")
}
func (UnimplementedSocialServiceServer) Timeline(context.Context, *UserRequest) (*TimelineResponse, error) {
	return nil, unimplemented("Timeline")
}
func (UnimplementedSocialServiceServer) Me(context.Context, *UserRequest) (*ProfileResponse, error) {
	return nil, unimplemented("Me")
}
func (UnimplementedSocialServiceServer) Profile(context.Context, *ProfileRequest) (*ProfileResponse, error) {
	return nil, unimplemented("Profile")
}
func (UnimplementedSocialServiceServer) UsersToFollow(context.Context, *UsersToFollowRequest) (*UsersResponse, error) {
	return nil, unimplemented("UsersToFollow")
}
func (UnimplementedSocialServiceServer) PostTweet(context.Context, *PostTweetRequest) (*TweetResponse, error) {
	return nil, unimplemented("PostTweet")
}
func (UnimplementedSocialServiceServer) Reply(context.Context, *ReplyRequest) (*ReplyResponse, error) {
	return nil, unimplemented("Reply")
}

func RegisterSocialServiceServer(s grpc.ServiceRegistrar, srv SocialServiceServer) {
	s.RegisterService(&SocialService_ServiceDesc, srv)
}

type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

// unary adapts a typed server method to the handler shape grpc.MethodDesc expects.
func unary[Req, Resp any](fullMethod string, call func(SocialServiceServer, context.Context, *Req) (*Resp, error)) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SocialServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SocialServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var SocialService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SocialServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(SocialService_Ping_FullMethodName, SocialServiceServer.Ping)},
		{MethodName: "Follow", Handler: unary(SocialService_Follow_FullMethodName, SocialServiceServer.Follow)},
		{MethodName: "Unfollow", Handler: unary(SocialService_Unfollow_FullMethodName, SocialServiceServer.Unfollow)},
		{MethodName: "FollowingIds", Handler: unary(SocialService_FollowingIds_FullMethodName, SocialServiceServer.FollowingIds)},
		{MethodName: "FollowerIds", Handler: unary(SocialService_FollowerIds_FullMethodName, SocialServiceServer.FollowerIds)},
		{MethodName: "IsFollowing", Handler: unary(SocialService_IsFollowing_FullMethodName, SocialServiceServer.IsFollowing)},
		{MethodName: "Favorite", Handler: unary(SocialService_Favorite_FullMethodName, SocialServiceServer.Favorite)},
		{MethodName: "Unfavorite", Handler: unary(SocialService_Unfavorite_FullMethodName, SocialServiceServer.Unfavorite)},
		{MethodName: "IsFavorited", Handler: unary(SocialService_IsFavorited_FullMethodName, SocialServiceServer.IsFavorited)},
		{MethodName: "Timeline", Handler: unary(SocialService_Timeline_FullMethodName, SocialServiceServer.Timeline)},
		{MethodName: "Me", Handler: unary(SocialService_Me_FullMethodName, SocialServiceServer.Me)},
		{MethodName: "Profile", Handler: unary(SocialService_Profile_FullMethodName, SocialServiceServer.Profile)},
		{MethodName: "UsersToFollow", Handler: unary(SocialService_UsersToFollow_FullMethodName, SocialServiceServer.UsersToFollow)},
		{MethodName: "PostTweet", Handler: unary(SocialService_PostTweet_FullMethodName, SocialServiceServer.PostTweet)},
		{MethodName: "Reply", Handler: unary(SocialService_Reply_FullMethodName, SocialServiceServer.Reply)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "social.proto",
}

// SocialServiceClient calls social.SocialService. Every call is sent with the
// json content subtype.
type SocialServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSocialServiceClient(cc grpc.ClientConnInterface) *SocialServiceClient {
	return &SocialServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SocialServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, SocialService_Ping_FullMethodName, in, opts)
}

func (c *SocialServiceClient) Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, SocialService_Follow_FullMethodName, in, opts)
}

func (c *SocialServiceClient) Unfollow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, SocialService_Unfollow_FullMethodName, in, opts)
}

func (c *SocialServiceClient) FollowingIds(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*IdsResponse, error) {
	return invoke[IdsResponse](ctx, c.cc, SocialService_FollowingIds_FullMethodName, in, opts)
}

func (c *SocialServiceClient) FollowerIds(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*IdsResponse, error) {
	return invoke[IdsResponse](ctx, c.cc, SocialService_FollowerIds_FullMethodName, in, opts)
}

func (c *SocialServiceClient) IsFollowing(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*IsFollowingResponse, error) {
	return invoke[IsFollowingResponse](ctx, c.cc, SocialService_IsFollowing_FullMethodName, in, opts)
}

func (c *SocialServiceClient) Favorite(ctx context.Context, in *FavoriteRequest, opts ...grpc.CallOption) (*FavoriteResponse, error) {
	return invoke[FavoriteResponse](ctx, c.cc, SocialService_Favorite_FullMethodName, in, opts)
}

func (c *SocialServiceClient) Unfavorite(ctx context.Context, in *FavoriteRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, SocialService_Unfavorite_FullMethodName, in, opts)
}

func (c *SocialServiceClient) IsFavorited(ctx context.Context, in *FavoriteRequest, opts ...grpc.CallOption) (*IsFavoritedResponse, error) {
	return invoke[IsFavoritedResponse](ctx, c.cc, SocialService_IsFavorited_FullMethodName, in, opts)
}

func (c *SocialServiceClient) Timeline(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*TimelineResponse, error) {
	return invoke[TimelineResponse](ctx, c.cc, SocialService_Timeline_FullMethodName, in, opts)
}

func (c *SocialServiceClient) Me(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, SocialService_Me_FullMethodName, in, opts)
}

func (c *SocialServiceClient) Profile(ctx context.Context, in *ProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, SocialService_Profile_FullMethodName, in, opts)
}

func (c *SocialServiceClient) UsersToFollow(ctx context.Context, in *UsersToFollowRequest, opts ...grpc.CallOption) (*UsersResponse, error) {
	return invoke[UsersResponse](ctx, c.cc, SocialService_UsersToFollow_FullMethodName, in, opts)
}

func (c *SocialServiceClient) PostTweet(ctx context.Context, in *PostTweetRequest, opts ...grpc.CallOption) (*TweetResponse, error) {
	return invoke[TweetResponse](ctx, c.cc, SocialService_PostTweet_FullMethodName, in, opts)
}

func (c *SocialServiceClient) Reply(ctx context.Context, in *ReplyRequest, opts ...grpc.CallOption) (*ReplyResponse, error) {
	return invoke[ReplyResponse](ctx, c.cc, SocialService_Reply_FullMethodName, in, opts)
}
