package domain

import "testing"

func sampleBlogs() []*Blog {
	return []*Blog{
		{Title: "Bob's blog", Author: "Bob", URL: "https://www.bobsblog.com", Likes: 20},
		{Title: "Jeff's blog", Author: "Jeff", URL: "https://www.jeffsblog.com", Likes: 10},
		{Title: "Will's blog", Author: "Will", URL: "https://www.willsblog.com", Likes: 3},
		{Title: "Jeff again", Author: "Jeff", URL: "https://www.jeffsblog.com/2", Likes: 5},
	}
}

func TestTotalLikes(t *testing.T) {
	t.Parallel()

	if got := TotalLikes(nil); got != 0 {
		t.Fatalf("TotalLikes(nil) = %d, want 0", got)
	}
	if got := TotalLikes(sampleBlogs()); got != 38 {
		t.Fatalf("TotalLikes = %d, want 38", got)
	}
}

func TestFavoriteBlog(t *testing.T) {
	t.Parallel()

	if got := FavoriteBlog(nil); got != nil {
		t.Fatalf("FavoriteBlog(nil) = %+v, want nil", got)
	}

	fav := FavoriteBlog(sampleBlogs())
	if fav == nil || fav.Title != "Bob's blog" {
		t.Fatalf("FavoriteBlog = %+v, want Bob's blog", fav)
	}
}

func TestMostBlogs(t *testing.T) {
	t.Parallel()

	if got := MostBlogs(nil); got != nil {
		t.Fatalf("MostBlogs(nil) = %+v, want nil", got)
	}

	got := MostBlogs(sampleBlogs())
	if got == nil || got.Author != "Jeff" || got.Count != 2 {
		t.Fatalf("MostBlogs = %+v, want {Jeff 2}", got)
	}
}

func TestMostLikes(t *testing.T) {
	t.Parallel()

	if got := MostLikes(nil); got != nil {
		t.Fatalf("MostLikes(nil) = %+v, want nil", got)
	}

	got := MostLikes(sampleBlogs())
	if got == nil || got.Author != "Bob" || got.Count != 20 {
		t.Fatalf("MostLikes = %+v, want {Bob 20}", got)
	}
}
