package repositories

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
)

func TestBuildAuditCondition_Empty(t *testing.T) {
	where := buildAuditCondition(models.AuditFilter{})
	assert.Empty(t, where)

	_, args, err := NewAuditLogRepository(nil).buildAuditQuery(models.AuditFilter{Page: 1, Size: 10}).ToSql()
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestBuildAuditQuery_AllFilters(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	actor := int64(7)

	repo := NewAuditLogRepository(nil)
	sql, args, err := repo.buildAuditQuery(models.AuditFilter{
		ActorID:    &actor,
		ActorEmail: "admin@",
		Action:     "company.review",
		EntityType: "company",
		EntityID:   "12",
		From:       &from,
		To:         &to,
		Search:     "50%",
		Page:       2,
		Size:       25,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "actor_id = $1")
	assert.Contains(t, sql, "actor_email ILIKE $2")
	assert.Contains(t, sql, "action = $3")
	assert.Contains(t, sql, "entity_type = $4")
	assert.Contains(t, sql, "entity_id = $5")
	assert.Contains(t, sql, "created_at >= $6")
	assert.Contains(t, sql, "created_at < $7")
	assert.Contains(t, sql, "details::text ILIKE $11")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
	assert.Contains(t, sql, "LIMIT 25 OFFSET 25")

	require.Len(t, args, 11)
	assert.Equal(t, actor, args[0])
	assert.Equal(t, "%admin@%", args[1])
	assert.Equal(t, from, args[5])
	assert.Equal(t, to, args[6])
	assert.Equal(t, `%50\%%`, args[7])
}

func TestBuildAuditQuery_Ascending(t *testing.T) {
	sql, _, err := NewAuditLogRepository(nil).buildAuditQuery(models.AuditFilter{SortAsc: true, Page: 1, Size: 10}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY created_at ASC, id ASC")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 0")
}

func TestEventFilterCondition(t *testing.T) {
	hackathon := models.EventTypeHackathon
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	where := eventFilterCondition(models.EventFilter{
		Type:     &hackathon,
		Statuses: []models.EventStatus{models.EventApproved},
		Tag:      " Go ",
		Upcoming: true,
		Now:      now,
		Search:   "rust",
	})
	sql, args, err := squirrel.Select("*").From("events e").Where(where).PlaceholderFormat(squirrel.Dollar).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "e.type = $1")
	assert.Contains(t, sql, "e.status IN ($2)")
	assert.Contains(t, sql, "e.start_at > $3")
	assert.Contains(t, sql, "$4 = ANY(e.tags)")
	assert.Contains(t, sql, "e.title ILIKE $5")
	assert.Equal(t, now, args[2])
	assert.Equal(t, "go", args[3])
}

func TestInternshipFilterCondition_PublicOnly(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	where := internshipFilterCondition(models.InternshipFilter{PublicOnly: true, Now: now})
	sql, args, err := where.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "c.verification_status = ?")
	assert.Contains(t, sql, "i.status = ?")
	assert.Contains(t, sql, "i.deadline IS NULL OR i.deadline > ?")
	assert.Contains(t, args, models.CompanyVerified)
	assert.Contains(t, args, models.InternshipOpen)
	assert.Contains(t, args, now)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "ai"}, normalizeTags([]string{" Go", "go", "", "AI "}))
	assert.Equal(t, []string{}, normalizeTags(nil))
}

func TestUserFilterCondition(t *testing.T) {
	role := models.RoleCompany
	active := false
	sql, args, err := userFilterCondition(models.UserFilter{Role: &role, IsActive: &active, Search: "ada"}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "role_type = ?")
	assert.Contains(t, sql, "is_active = ?")
	assert.Contains(t, sql, "email ILIKE ?")
	assert.Equal(t, []any{role, active, "%ada%", "%ada%"}, args)
}

func TestVerificationUpdate_GuardsCurrentStatus(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	reviewer := int64(1)
	c := &models.Company{
		ID:                 12,
		VerificationStatus: models.CompanyVerified,
		VerifiedBy:         &reviewer,
		VerifiedAt:         &now,
		UpdatedAt:          now,
	}

	sql, args, err := NewCompanyRepository(nil).buildVerificationUpdate(c, models.CompanyPending).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE companies SET verification_status = $1")
	assert.Contains(t, sql, "WHERE id = $6 AND verification_status = $7")
	require.Len(t, args, 7)
	assert.Equal(t, models.CompanyVerified, args[0])
	assert.Equal(t, int64(12), args[5])
	assert.Equal(t, models.CompanyPending, args[6])
}
