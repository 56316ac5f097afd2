package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/repository"
)

const (
	recentVisitLimit  = 5
	topPerformerLimit = 5
	userRankingLimit  = 10
	timeframeBuckets  = 6

	statsCacheTTL = time.Minute
)

type Service struct {
	visits    repository.VisitRepository
	customers repository.CustomerRepository
	doctors   repository.DoctorRepository
	users     repository.UserRepository
	target    int
	cache     *gocache.Cache

	// injectable clock for tests
	now func() time.Time
}

func NewService(
	visits repository.VisitRepository,
	customers repository.CustomerRepository,
	doctors repository.DoctorRepository,
	users repository.UserRepository,
	monthlyTarget int,
) *Service {
	if monthlyTarget <= 0 {
		monthlyTarget = 20
	}
	return &Service{
		visits:    visits,
		customers: customers,
		doctors:   doctors,
		users:     users,
		target:    monthlyTarget,
		cache:     gocache.New(statsCacheTTL, 5*time.Minute),
		now:       time.Now,
	}
}

// Dashboard builds the per-user dashboard. The independent fetches run
// concurrently and are joined before any aggregation happens.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*model.DashboardStats, error) {
	cacheKey := "dashboard:" + userID.String()
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*model.DashboardStats), nil
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		visits    []*model.Visit
		customers []*model.Customer
		doctors   []*model.Doctor
		recent    []*model.Visit
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		v, err := s.visits.ListByUser(ctx, userID, nil)
		if err != nil {
			fail(err)
			return
		}
		visits = v
	}()
	go func() {
		defer wg.Done()
		c, err := s.customers.ListByUser(ctx, userID)
		if err != nil {
			fail(err)
			return
		}
		customers = c
	}()
	go func() {
		defer wg.Done()
		d, err := s.doctors.ListByUser(ctx, userID)
		if err != nil {
			fail(err)
			return
		}
		doctors = d
	}()
	go func() {
		defer wg.Done()
		r, err := s.visits.ListRecent(ctx, userID, recentVisitLimit)
		if err != nil {
			fail(err)
			return
		}
		recent = r
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("failed to fetch dashboard data: %w", firstErr)
	}

	stats := s.buildDashboard(visits, customers, doctors, recent)
	s.cache.Set(cacheKey, stats, statsCacheTTL)
	return stats, nil
}

func (s *Service) buildDashboard(visits []*model.Visit, customers []*model.Customer, doctors []*model.Doctor, recent []*model.Visit) *model.DashboardStats {
	now := s.now()
	windows := WindowCounts(visits, now)

	// Oldest-first scan so ties on the top customer go to the earliest name.
	ordered := make([]*model.Visit, len(visits))
	copy(ordered, visits)
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}

	return &model.DashboardStats{
		Windows: windows,
		Metrics: model.PerformanceMetrics{
			MonthlyTarget:  s.target,
			CompletionRate: CompletionRate(windows.Month, s.target),
			GrowthRate:     GrowthRate(windows.Month, windows.LastMonth),
			AvgPerDay:      AvgPerDay(len(visits)),
			TopCustomer:    TopCustomer(ordered),
		},
		TotalCustomers: len(customers),
		TotalDoctors:   len(doctors),
		RecentVisits:   recent,
	}
}

// AdminOverview builds the organization-wide dashboard for admins.
func (s *Service) AdminOverview(ctx context.Context) (*model.AdminOverview, error) {
	if cached, ok := s.cache.Get("admin:overview"); ok {
		return cached.(*model.AdminOverview), nil
	}

	stats, err := s.collectUserStats(ctx)
	if err != nil {
		return nil, err
	}

	overview := &model.AdminOverview{
		TotalUsers:     stats.totalUsers,
		TotalVisits:    len(stats.visits),
		TotalCustomers: stats.totalCustomers,
		TotalDoctors:   stats.totalDoctors,
		Windows:        WindowCounts(stats.visits, s.now()),
		TopPerformers:  RankUsers(stats.perUser, topPerformerLimit),
		RecentVisits:   firstN(stats.visits, 10),
	}

	s.cache.Set("admin:overview", overview, statsCacheTTL)
	return overview, nil
}

// AdminUserStats returns the full per-user performance ranking, top 10.
func (s *Service) AdminUserStats(ctx context.Context) ([]*model.UserStats, error) {
	stats, err := s.collectUserStats(ctx)
	if err != nil {
		return nil, err
	}
	return RankUsers(stats.perUser, userRankingLimit), nil
}

// Timeframes computes six trailing buckets of the given period with totals,
// unique users and the per-user average.
func (s *Service) Timeframes(ctx context.Context, period string) ([]*model.TimeframeStats, error) {
	now := s.now()
	buckets := make([]*model.TimeframeStats, 0, timeframeBuckets)

	for i := 0; i < timeframeBuckets; i++ {
		var start, end time.Time
		var name string

		switch period {
		case "week":
			start = now.AddDate(0, 0, -(i+1)*7)
			end = start.AddDate(0, 0, 7)
			name = fmt.Sprintf("%s - %s", start.Format("02/01"), end.Format("02/01"))
		case "quarter":
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(i+1)*3, 0)
			end = start.AddDate(0, 3, 0)
			name = fmt.Sprintf("Q%d %d", (int(start.Month())-1)/3+1, start.Year())
		default: // month
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(i+1), 0)
			end = start.AddDate(0, 1, 0)
			name = start.Format("January 2006")
		}

		visits, err := s.visits.ListRange(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch timeframe visits: %w", err)
		}

		uniqueUsers := make(map[uuid.UUID]struct{})
		for _, v := range visits {
			uniqueUsers[v.UserID] = struct{}{}
		}

		avg := 0.0
		if len(uniqueUsers) > 0 {
			avg = round1(float64(len(visits)) / float64(len(uniqueUsers)))
		}

		buckets = append(buckets, &model.TimeframeStats{
			Period:           name,
			StartDate:        start,
			EndDate:          end,
			TotalVisits:      len(visits),
			UniqueUsers:      len(uniqueUsers),
			AvgVisitsPerUser: avg,
		})
	}

	// Oldest bucket first.
	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	return buckets, nil
}

type orgStats struct {
	visits         []*model.Visit
	perUser        []*model.UserStats
	totalUsers     int
	totalCustomers int
	totalDoctors   int
}

func (s *Service) collectUserStats(ctx context.Context) (*orgStats, error) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		users     []*model.User
		visits    []*model.Visit
		customers []*model.Customer
		doctors   []*model.Doctor
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		u, err := s.users.List(ctx)
		if err != nil {
			fail(err)
			return
		}
		users = u
	}()
	go func() {
		defer wg.Done()
		v, err := s.visits.ListAll(ctx)
		if err != nil {
			fail(err)
			return
		}
		visits = v
	}()
	go func() {
		defer wg.Done()
		c, err := s.customers.ListAll(ctx)
		if err != nil {
			fail(err)
			return
		}
		customers = c
	}()
	go func() {
		defer wg.Done()
		d, err := s.doctors.ListAll(ctx)
		if err != nil {
			fail(err)
			return
		}
		doctors = d
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("failed to fetch report data: %w", firstErr)
	}

	byUser := make(map[uuid.UUID]*model.UserStats)
	ordered := make([]*model.UserStats, 0, len(users))
	for _, u := range users {
		if u.Role != model.RoleUser {
			continue
		}
		st := &model.UserStats{UserID: u.ID, Email: u.Email}
		byUser[u.ID] = st
		ordered = append(ordered, st)
	}

	for _, v := range visits {
		st, ok := byUser[v.UserID]
		if !ok {
			continue
		}
		st.VisitCount++
		if st.LastVisit == nil || v.VisitDate.After(*st.LastVisit) {
			d := v.VisitDate
			st.LastVisit = &d
		}
	}
	for _, c := range customers {
		if st, ok := byUser[c.UserID]; ok {
			st.CustomerCount++
		}
	}
	for _, d := range doctors {
		if st, ok := byUser[d.UserID]; ok {
			st.DoctorCount++
		}
	}

	return &orgStats{
		visits:         visits,
		perUser:        ordered,
		totalUsers:     len(users),
		totalCustomers: len(customers),
		totalDoctors:   len(doctors),
	}, nil
}

func firstN(visits []*model.Visit, n int) []*model.Visit {
	if n > len(visits) {
		n = len(visits)
	}
	return visits[:n]
}
