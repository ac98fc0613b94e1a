package instagram

import "time"

// Media type names as reported by the GraphQL __typename field
const (
	TypenameImage   = "GraphImage"
	TypenameVideo   = "GraphVideo"
	TypenameSidecar = "GraphSidecar"
)

// WebProfileResponse represents the top-level response from the web profile endpoint
type WebProfileResponse struct {
	RequiresToLogin bool   `json:"requires_to_login"`
	Data            Data   `json:"data"`
	Status          string `json:"status"`
}

// MediaResponse represents the top-level response from the GraphQL media endpoint
type MediaResponse struct {
	Data   Data   `json:"data"`
	Status string `json:"status"`
}

// Data wraps the user information in the response
type Data struct {
	User User `json:"user"`
}

// User represents an Instagram user profile
type User struct {
	ID                       string                   `json:"id"`
	Username                 string                   `json:"username"`
	FullName                 string                   `json:"full_name"`
	Biography                string                   `json:"biography"`
	ExternalURL              string                   `json:"external_url"`
	IsPrivate                bool                     `json:"is_private"`
	IsVerified               bool                     `json:"is_verified"`
	IsBusinessAccount        bool                     `json:"is_business_account"`
	ProfilePicURL            string                   `json:"profile_pic_url_hd"`
	EdgeFollowedBy           EdgeCount                `json:"edge_followed_by"`
	EdgeFollow               EdgeCount                `json:"edge_follow"`
	EdgeOwnerToTimelineMedia EdgeOwnerToTimelineMedia `json:"edge_owner_to_timeline_media"`
}

// Followers returns the follower count
func (u *User) Followers() int64 {
	return u.EdgeFollowedBy.Count
}

// Following returns the followee count
func (u *User) Following() int64 {
	return u.EdgeFollow.Count
}

// EdgeCount wraps a bare count edge
type EdgeCount struct {
	Count int64 `json:"count"`
}

// EdgeOwnerToTimelineMedia contains the user's media information
type EdgeOwnerToTimelineMedia struct {
	Count    int      `json:"count"`
	PageInfo PageInfo `json:"page_info"`
	Edges    []Edge   `json:"edges"`
}

// PageInfo contains pagination information
type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

// Edge wraps a single media node
type Edge struct {
	Node Node `json:"node"`
}

// Node represents a single media item (photo, video or carousel)
type Node struct {
	ID                 string             `json:"id"`
	Typename           string             `json:"__typename"`
	Shortcode          string             `json:"shortcode"`
	DisplayURL         string             `json:"display_url"`
	IsVideo            bool               `json:"is_video"`
	VideoViewCount     int64              `json:"video_view_count"`
	TakenAtTimestamp   int64              `json:"taken_at_timestamp"`
	EdgeMediaToCaption EdgeMediaToCaption `json:"edge_media_to_caption"`
	EdgeLikedBy        EdgeCount          `json:"edge_liked_by"`
	EdgeMediaToComment EdgeCount          `json:"edge_media_to_comment"`
}

// EdgeMediaToCaption wraps the caption edges of a post
type EdgeMediaToCaption struct {
	Edges []CaptionEdge `json:"edges"`
}

// CaptionEdge wraps a single caption node
type CaptionEdge struct {
	Node CaptionNode `json:"node"`
}

// CaptionNode holds the caption text
type CaptionNode struct {
	Text string `json:"text"`
}

// Caption returns the first caption text, or empty string if none
func (n *Node) Caption() string {
	if len(n.EdgeMediaToCaption.Edges) == 0 {
		return ""
	}
	return n.EdgeMediaToCaption.Edges[0].Node.Text
}

// Likes returns the like count
func (n *Node) Likes() int64 {
	return n.EdgeLikedBy.Count
}

// Comments returns the comment count
func (n *Node) Comments() int64 {
	return n.EdgeMediaToComment.Count
}

// TakenAt returns the post timestamp in UTC
func (n *Node) TakenAt() time.Time {
	return time.Unix(n.TakenAtTimestamp, 0).UTC()
}

// MediaType maps the GraphQL typename to a human-readable post type
func (n *Node) MediaType() string {
	switch n.Typename {
	case TypenameVideo:
		return "Video"
	case TypenameSidecar:
		return "Carousel"
	case TypenameImage:
		return "Photo"
	default:
		if n.IsVideo {
			return "Video"
		}
		return "Photo"
	}
}
