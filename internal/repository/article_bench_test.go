package repository

import (
    "context"
    "fmt"
    "math/rand"
    "testing"
    "time"

    "github.com/d60-Lab/tayar/internal/model"
    "github.com/d60-Lab/tayar/internal/testutil"
)

func setupArticleBenchStore(b *testing.B, n int) *Store {
    s := NewStore(testutil.NewDB(b))
    ctx := context.Background()
    src, err := s.Sources.GetOrCreate(ctx, "bench", nil)
    if err != nil {
        b.Fatalf("seed source: %v", err)
    }
    words := []string{"kubernetes", "golang", "react", "postgres", "redis", "css"}
    now := time.Now()
    for i := 0; i < n; i++ {
        w := words[rand.Intn(len(words))]
        a := &model.Article{
            Title:       fmt.Sprintf("%s article %d", w, i),
            Description: "bench",
            Content:     fmt.Sprintf("body about %s #%d", w, i),
            SourceID:    src.ID,
            URL:         fmt.Sprintf("https://bench.example.com/%d", i),
            PublishedAt: now.Add(-time.Duration(i) * time.Minute),
            ReadTime:    1,
        }
        if err := s.Articles.Create(ctx, a); err != nil {
            b.Fatalf("seed article: %v", err)
        }
    }
    return s
}

func BenchmarkListArticles(b *testing.B) {
    s := setupArticleBenchStore(b, 2000)
    ctx := context.Background()

    b.ResetTimer()
    b.Run("FirstPage", func(b *testing.B) {
        for i := 0; i < b.N; i++ {
            _, _ = s.Articles.List(ctx, ListOptions{})
        }
    })

    b.Run("DeepOffset", func(b *testing.B) {
        for i := 0; i < b.N; i++ {
            _, _ = s.Articles.List(ctx, ListOptions{Limit: 10, Offset: 1500})
        }
    })

    b.Run("Search", func(b *testing.B) {
        for i := 0; i < b.N; i++ {
            _, _ = s.Articles.List(ctx, ListOptions{Search: "kubernetes", Limit: 20})
        }
    })
}

func BenchmarkDedupCheck(b *testing.B) {
    s := setupArticleBenchStore(b, 2000)
    ctx := context.Background()

    b.ResetTimer()
    for i := 0; i < b.N; i++ {
        _, _ = s.Articles.ExistsByURL(ctx, fmt.Sprintf("https://bench.example.com/%d", rand.Intn(4000)))
    }
}
