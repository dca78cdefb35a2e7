package api

import "strings"

// Endpoint is a backend path template under /api/v1. Path parameters use the
// ":name" form and are filled in by Path.
type Endpoint string

const (
	EndpointLogin        Endpoint = "/login"
	EndpointTokenRefresh Endpoint = "/refresh-token"
	EndpointIdentity     Endpoint = "/get-identity"

	EndpointSystemStatus        Endpoint = "/status"
	EndpointSystemStatusVersion Endpoint = "/status/version"
	EndpointSystemInit          Endpoint = "/init"
	EndpointSystemInitVerify    Endpoint = "/init/verify-code"
	EndpointSystemSettings      Endpoint = "/settings"

	EndpointPosts              Endpoint = "/post"
	EndpointPostPageCount      Endpoint = "/post/count-page"
	EndpointPostCount          Endpoint = "/post/count"
	EndpointPostByID           Endpoint = "/post/:id"
	EndpointPostsByTag         Endpoint = "/post/tag"
	EndpointPostCountByTag     Endpoint = "/post/tag/count"
	EndpointPostPagesByTag     Endpoint = "/post/tag/count-page"
	EndpointPostSearch         Endpoint = "/post/search"
	EndpointPostSearchPages    Endpoint = "/post/search/count-page"
	EndpointPostSearchCount    Endpoint = "/post/search/count"

	EndpointUsers      Endpoint = "/user"
	EndpointUserMe     Endpoint = "/user/me"
	EndpointUserByID   Endpoint = "/user/:userId"

	EndpointCommentByID        Endpoint = "/comment/:id"
	EndpointPostComments       Endpoint = "/post/:postId/comment"
	EndpointPostCommentPages   Endpoint = "/post/:postId/comment/count-page"
	EndpointPostCommentCount   Endpoint = "/post/:postId/comment/count"
	EndpointCommentReplies     Endpoint = "/comment/:commentId/reply"
	EndpointCommentDelete      Endpoint = "/comment/:commentId"

	EndpointPostLikes        Endpoint = "/post/:postId/like"
	EndpointPostLikeState    Endpoint = "/post/:postId/like/state"
	EndpointCommentLikes     Endpoint = "/comment/:commentId/like"
	EndpointCommentLikeState Endpoint = "/comment/:commentId/like/state"

	EndpointTags Endpoint = "/tag"

	EndpointBanUser              Endpoint = "/admin/ban/user"
	EndpointUnbanUser            Endpoint = "/admin/unban/user"
	EndpointBannedUsers          Endpoint = "/admin/ban/user"
	EndpointBannedUserPages      Endpoint = "/admin/ban/user/count-page"
	EndpointBannedUserCount      Endpoint = "/admin/ban/user/count"
	EndpointSearchBannedUsers    Endpoint = "/admin/ban/user/search"
	EndpointSearchBannedPages    Endpoint = "/admin/ban/user/search/count-page"
	EndpointSearchBannedCount    Endpoint = "/admin/ban/user/search/count"
	EndpointMarkedUsers          Endpoint = "/admin/mark/user"
	EndpointMarkedUserPages      Endpoint = "/admin/mark/user/count-page"
	EndpointMarkedUserCount      Endpoint = "/admin/mark/user/count"
	EndpointSearchMarkedUsers    Endpoint = "/admin/mark/user/search"
	EndpointSearchMarkedPages    Endpoint = "/admin/mark/user/search/count-page"
	EndpointSearchMarkedCount    Endpoint = "/admin/mark/user/search/count"
	EndpointBanIP                Endpoint = "/admin/ban/ip"
	EndpointUnbanIP              Endpoint = "/admin/unban/ip"
	EndpointBanIPByUserID        Endpoint = "/admin/ban/ip/user"
	EndpointUnbanIPByUserID      Endpoint = "/admin/unban/ip/user"
	EndpointBannedIPs            Endpoint = "/admin/ban/ip"
	EndpointBannedIPPages        Endpoint = "/admin/ban/ip/count-page"
	EndpointBannedIPCount        Endpoint = "/admin/ban/ip/count"
	EndpointSearchBannedIPs      Endpoint = "/admin/ban/ip/search"
	EndpointSearchBannedIPPages  Endpoint = "/admin/ban/ip/search/count-page"
	EndpointSearchBannedIPCount  Endpoint = "/admin/ban/ip/search/count"
)

// Path fills an endpoint's ":name" parameters.
func Path(endpoint Endpoint, params map[string]string) string {
	path := string(endpoint)
	for key, value := range params {
		path = strings.ReplaceAll(path, ":"+key, value)
	}
	return path
}
