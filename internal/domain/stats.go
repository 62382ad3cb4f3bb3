package domain

// Aggregations over blog lists, used by the stats endpoint and reporting
// tooling. All functions are pure.

// TotalLikes returns the sum of likes across all blogs.
func TotalLikes(blogs []*Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the most likes, or nil for an empty
// list. Ties keep the earliest blog.
func FavoriteBlog(blogs []*Blog) *Blog {
	if len(blogs) == 0 {
		return nil
	}
	favorite := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > favorite.Likes {
			favorite = b
		}
	}
	return favorite
}

// AuthorCount pairs an author with an aggregate count.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// MostBlogs returns the author with the largest number of blogs, or nil for
// an empty list.
func MostBlogs(blogs []*Blog) *AuthorCount {
	if len(blogs) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, b := range blogs {
		counts[b.Author]++
	}
	return maxAuthor(counts)
}

// MostLikes returns the author whose blogs have the largest combined like
// count, or nil for an empty list.
func MostLikes(blogs []*Blog) *AuthorCount {
	if len(blogs) == 0 {
		return nil
	}
	likes := make(map[string]int)
	for _, b := range blogs {
		likes[b.Author] += b.Likes
	}
	return maxAuthor(likes)
}

func maxAuthor(counts map[string]int) *AuthorCount {
	var best *AuthorCount
	for author, n := range counts {
		if best == nil || n > best.Count {
			best = &AuthorCount{Author: author, Count: n}
		}
	}
	return best
}
