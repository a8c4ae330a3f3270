package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/tayar/internal/model"
	"github.com/d60-Lab/tayar/internal/repository"
	"github.com/d60-Lab/tayar/pkg/logger"
)

const (
	TestUsername = "testuser"
	demoUsers    = 5
)

type sourceSeed struct{ name, logo string }

type tagSeed struct{ name, color string }

type articleSeed struct {
	title, description, image string
	source                    int
	publishedAt               string
	readTime                  int
	tags                      []string
}

var sources = []sourceSeed{
	{"TechCrunch", "https://techcrunch.com/wp-content/uploads/2015/02/cropped-cropped-favicon-gradient.png"},
	{"Dev.to", "https://dev-to.s3.amazonaws.com/favicon.ico"},
	{"AWS Blog", "https://a0.awsstatic.com/libra-css/images/site/fav/favicon.ico"},
	{"MongoDB Engineering", "https://www.mongodb.com/assets/images/global/favicon.ico"},
	{"Security Weekly", "https://securityweekly.com/wp-content/uploads/2019/06/favicon.png"},
	{"AI Research Journal", "https://ai.googleblog.com/favicon.ico"},
}

var tags = []tagSeed{
	{"javascript", "#F7DF1E"},
	{"react", "#61DAFB"},
	{"cloud", "#4285F4"},
	{"database", "#F29111"},
	{"security", "#FF5722"},
	{"ai", "#9C27B0"},
	{"webdev", "#E91E63"},
	{"python", "#3776AB"},
	{"devops", "#05122A"},
}

var articles = []articleSeed{
	{
		title:       "JavaScript Animation Engine: Building High-Performance Web Animations",
		description: "Learn how to build a lightweight animation engine for creating fluid UI experiences without relying on heavy libraries.",
		image:       "https://images.unsplash.com/photo-1555066931-4365d14bab8c",
		source:      0, publishedAt: "2023-06-15T14:30:00Z", readTime: 7,
		tags: []string{"javascript"},
	},
	{
		title:       "2023 Frontend Framework Comparison: React vs Vue vs Angular vs Svelte",
		description: "A detailed analysis of the most popular frontend frameworks in 2023, with performance benchmarks and developer experience insights.",
		image:       "https://images.unsplash.com/photo-1517694712202-14dd9538aa97",
		source:      1, publishedAt: "2023-06-15T10:15:00Z", readTime: 12,
		tags: []string{"react", "webdev"},
	},
	{
		title:       "A Beginner's Guide to Kubernetes: Containers Orchestration Made Simple",
		description: "Learn the fundamentals of Kubernetes and how it can help you manage containerized applications at scale with practical examples.",
		image:       "https://images.unsplash.com/photo-1607799279861-4dd421887fb3",
		source:      2, publishedAt: "2023-06-14T09:45:00Z", readTime: 10,
		tags: []string{"cloud", "devops"},
	},
	{
		title:       "NoSQL vs SQL in 2023: Choosing the Right Database for Your Application",
		description: "An updated comparison of SQL and NoSQL database systems with guidance on which to choose based on your specific use case.",
		image:       "https://images.unsplash.com/photo-1594904351111-a072f80b1a71",
		source:      3, publishedAt: "2023-06-12T16:20:00Z", readTime: 8,
		tags: []string{"database"},
	},
	{
		title:       "Modern Web Security: OWASP Top 10 and Beyond for 2023",
		description: "Discover the latest security threats and learn practical techniques to protect your web applications against sophisticated attacks.",
		image:       "https://images.unsplash.com/photo-1563089145-599997674d42",
		source:      4, publishedAt: "2023-06-13T11:30:00Z", readTime: 9,
		tags: []string{"security"},
	},
	{
		title:       "The 13 Most Important Software Engineering Laws Every Developer Should Know",
		description: "From Conway's Law to the Law of Demeter, these fundamental principles will help you build better software systems.",
		image:       "https://images.unsplash.com/photo-1573164574572-cb89e39749b4",
		source:      5, publishedAt: "2023-06-11T08:15:00Z", readTime: 11,
		tags: []string{"ai", "webdev"},
	},
}

// Run 写入演示数据；testuser 已存在时视为已初始化，直接返回
func Run(ctx context.Context, store *repository.Store) error {
	if _, err := store.Users.GetByUsername(ctx, TestUsername); err == nil {
		logger.Debug("seed skipped, demo data present")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	srcIDs := make([]uint, len(sources))
	for i, s := range sources {
		logo := s.logo
		src, err := store.Sources.GetOrCreate(ctx, s.name, &logo)
		if err != nil {
			return fmt.Errorf("seed source %s: %w", s.name, err)
		}
		srcIDs[i] = src.ID
	}

	tagIDs := make(map[string]uint, len(tags))
	for _, t := range tags {
		tag, err := store.Tags.GetOrCreate(ctx, t.name, t.color)
		if err != nil {
			return fmt.Errorf("seed tag %s: %w", t.name, err)
		}
		tagIDs[t.name] = tag.ID
	}

	articleIDs := make([]uint, 0, len(articles))
	for i, as := range articles {
		published, err := time.Parse(time.RFC3339, as.publishedAt)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(as.tags))
		for _, name := range as.tags {
			ids = append(ids, tagIDs[name])
		}
		a := &model.Article{
			Title:       as.title,
			Description: as.description,
			Content:     fmt.Sprintf("<p>%s</p>", as.description),
			ImageURL:    as.image,
			SourceID:    srcIDs[as.source],
			URL:         fmt.Sprintf("/article/%d", i+1),
			PublishedAt: published,
			ReadTime:    as.readTime,
		}
		created, err := store.Articles.CreateIfAbsent(ctx, a, ids)
		if err != nil {
			return fmt.Errorf("seed article %d: %w", i+1, err)
		}
		if created {
			articleIDs = append(articleIDs, a.ID)
		}
	}

	users, err := seedUsers(ctx, store)
	if err != nil {
		return err
	}

	// 演示用户对每篇文章点赞并留几条评论
	now := time.Now().UTC()
	for i, articleID := range articleIDs {
		for _, u := range users[1:] {
			if _, err := store.Reactions.Create(ctx, u.ID, articleID, model.ReactionLike); err != nil {
				return fmt.Errorf("seed reaction: %w", err)
			}
		}
		for j := 0; j < 2+i%3; j++ {
			u := users[1+j%demoUsers]
			c := &model.Comment{
				UserID:    u.ID,
				ArticleID: articleID,
				Content:   fmt.Sprintf("This is a test comment %d on article %d", j, articleID),
				CreatedAt: now.Add(-time.Duration(j) * time.Minute),
			}
			if err := store.Comments.Create(ctx, c); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}
	}

	logger.Info("seed data created",
		zap.Int("sources", len(sources)),
		zap.Int("tags", len(tags)),
		zap.Int("articles", len(articleIDs)),
		zap.Int("users", len(users)),
	)
	return nil
}

func seedUsers(ctx context.Context, store *repository.Store) ([]*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	avatar := "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e"
	users := []*model.User{{Username: TestUsername, Password: string(hash), Email: "test@example.com", AvatarURL: &avatar}}
	for i := 1; i <= demoUsers; i++ {
		users = append(users, &model.User{
			Username: fmt.Sprintf("reader%d", i),
			Password: string(hash),
			Email:    fmt.Sprintf("reader%d@example.com", i),
		})
	}
	for _, u := range users {
		if err := store.Users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	return users, nil
}
