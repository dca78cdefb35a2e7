package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/yutingli1123/plumasphere-go/transport"
)

// AdminAPI wraps the moderation endpoints: user bans, IP bans, and the
// banned/marked listings with pagination and keyword search. Every call
// requires authentication.
type AdminAPI struct {
	client *transport.Client
}

func NewAdminAPI(client *transport.Client) *AdminAPI {
	return &AdminAPI{client: client}
}

// BanUser bans a user account.
func (a *AdminAPI) BanUser(ctx context.Context, request BanRequest) error {
	return a.client.Post(ctx, Path(EndpointBanUser, nil), request, true, nil)
}

// UnbanUser lifts a user ban.
func (a *AdminAPI) UnbanUser(ctx context.Context, userID int64) error {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(userID, 10))
	return a.client.Delete(ctx, Path(EndpointUnbanUser, nil), query, true, nil)
}

// BanIPForUser bans the IP a user last posted from.
func (a *AdminAPI) BanIPForUser(ctx context.Context, request BanRequest) error {
	return a.client.Post(ctx, Path(EndpointBanIPByUserID, nil), request, true, nil)
}

// UnbanIPForUser lifts the IP ban associated with a user.
func (a *AdminAPI) UnbanIPForUser(ctx context.Context, userID int64) error {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(userID, 10))
	return a.client.Delete(ctx, Path(EndpointUnbanIPByUserID, nil), query, true, nil)
}

// BanIP bans an IP address directly.
func (a *AdminAPI) BanIP(ctx context.Context, request BanIPRequest) error {
	return a.client.Post(ctx, Path(EndpointBanIP, nil), request, true, nil)
}

// UnbanIP lifts a direct IP ban.
func (a *AdminAPI) UnbanIP(ctx context.Context, ipAddress string) error {
	query := url.Values{}
	query.Set("ipAddress", ipAddress)
	return a.client.Delete(ctx, Path(EndpointUnbanIP, nil), query, true, nil)
}

// GetBannedUsers lists one page of banned users.
func (a *AdminAPI) GetBannedUsers(ctx context.Context, page int64) ([]UserWithAdminInfo, error) {
	var users []UserWithAdminInfo
	if err := a.client.Get(ctx, Path(EndpointBannedUsers, nil), pageQuery(page), true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetBannedUserStats fetches totals for the banned user listing.
func (a *AdminAPI) GetBannedUserStats(ctx context.Context) (*PageStats, error) {
	return a.pageStats(ctx, EndpointBannedUserPages, EndpointBannedUserCount, nil)
}

// GetMarkedUsers lists one page of users marked for review.
func (a *AdminAPI) GetMarkedUsers(ctx context.Context, page int64) ([]UserWithAdminInfo, error) {
	var users []UserWithAdminInfo
	if err := a.client.Get(ctx, Path(EndpointMarkedUsers, nil), pageQuery(page), true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetMarkedUserStats fetches totals for the marked user listing.
func (a *AdminAPI) GetMarkedUserStats(ctx context.Context) (*PageStats, error) {
	return a.pageStats(ctx, EndpointMarkedUserPages, EndpointMarkedUserCount, nil)
}

// GetBannedIPs lists one page of banned addresses.
func (a *AdminAPI) GetBannedIPs(ctx context.Context, page int64) ([]BannedIP, error) {
	var ips []BannedIP
	if err := a.client.Get(ctx, Path(EndpointBannedIPs, nil), pageQuery(page), true, &ips); err != nil {
		return nil, err
	}
	return ips, nil
}

// GetBannedIPStats fetches totals for the banned IP listing.
func (a *AdminAPI) GetBannedIPStats(ctx context.Context) (*PageStats, error) {
	return a.pageStats(ctx, EndpointBannedIPPages, EndpointBannedIPCount, nil)
}

// SearchBannedUsers searches banned users by keyword.
func (a *AdminAPI) SearchBannedUsers(ctx context.Context, keyword string, page int64) ([]UserWithAdminInfo, error) {
	query := pageQuery(page)
	query.Set("keyword", keyword)

	var users []UserWithAdminInfo
	if err := a.client.Get(ctx, Path(EndpointSearchBannedUsers, nil), query, true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchBannedUserStats fetches totals for a banned user search.
func (a *AdminAPI) SearchBannedUserStats(ctx context.Context, keyword string) (*PageStats, error) {
	return a.pageStats(ctx, EndpointSearchBannedPages, EndpointSearchBannedCount, keywordQuery(keyword))
}

// SearchMarkedUsers searches marked users by keyword.
func (a *AdminAPI) SearchMarkedUsers(ctx context.Context, keyword string, page int64) ([]UserWithAdminInfo, error) {
	query := pageQuery(page)
	query.Set("keyword", keyword)

	var users []UserWithAdminInfo
	if err := a.client.Get(ctx, Path(EndpointSearchMarkedUsers, nil), query, true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchMarkedUserStats fetches totals for a marked user search.
func (a *AdminAPI) SearchMarkedUserStats(ctx context.Context, keyword string) (*PageStats, error) {
	return a.pageStats(ctx, EndpointSearchMarkedPages, EndpointSearchMarkedCount, keywordQuery(keyword))
}

// SearchBannedIPs searches banned addresses by keyword.
func (a *AdminAPI) SearchBannedIPs(ctx context.Context, keyword string, page int64) ([]BannedIP, error) {
	query := pageQuery(page)
	query.Set("keyword", keyword)

	var ips []BannedIP
	if err := a.client.Get(ctx, Path(EndpointSearchBannedIPs, nil), query, true, &ips); err != nil {
		return nil, err
	}
	return ips, nil
}

// SearchBannedIPStats fetches totals for a banned IP search.
func (a *AdminAPI) SearchBannedIPStats(ctx context.Context, keyword string) (*PageStats, error) {
	return a.pageStats(ctx, EndpointSearchBannedIPPages, EndpointSearchBannedIPCount, keywordQuery(keyword))
}

func keywordQuery(keyword string) url.Values {
	query := url.Values{}
	query.Set("keyword", keyword)
	return query
}

func (a *AdminAPI) pageStats(ctx context.Context, pagesEndpoint, countEndpoint Endpoint, query url.Values) (*PageStats, error) {
	var stats PageStats
	if err := a.client.Get(ctx, Path(pagesEndpoint, nil), query, true, &stats.TotalPages); err != nil {
		return nil, err
	}
	if err := a.client.Get(ctx, Path(countEndpoint, nil), query, true, &stats.TotalCount); err != nil {
		return nil, err
	}
	return &stats, nil
}
