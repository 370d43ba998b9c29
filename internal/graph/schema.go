// Package graph is the GraphQL boundary: the schema, the root resolver
// dispatching to services, and the single place where domain errors are
// translated into the API error shape.
package graph

// Schema is the API contract. Field and operation names follow the
// Query/Mutation surface of the platform; Int arguments follow GraphQL's
// 32-bit Int.
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	type Query {
		users: [User!]!
		user: User!
		profile(username: String!): UserPayload
		article(slug: String!): ArticlePayload
		articles(limit: Int, offset: Int, tag: String, author: String, favorited: String): ArticlesPayload
		comments(slug: String!): CommentsPayload
		tags: TagPayload
		feed(limit: Int, offset: Int): ArticlesPayload
	}

	type Mutation {
		login(email: String!, password: String!): UserPayload
		register(email: String!, password: String!, username: String!): UserPayload
		updateUser(user: InputUser!): UserPayload
		createArticle(article: InputArticle!): ArticlePayload
		updateArticle(slug: String!, article: InputArticle!): ArticlePayload
		deleteArticle(slug: String!): Success
		createComment(slug: String!, comment: InputComment!): CommentPayload
		deleteComment(slug: String!, id: String!): Success
		followUser(username: String!): UserPayload
		unFollowUser(username: String!): UserPayload
		favoriteArticle(slug: String!): ArticlePayload
		unFavoriteArticle(slug: String!): ArticlePayload
	}

	type User {
		username: String!
		email: String
		bio: String!
		image: String!
		token: String
		following: Boolean
	}

	type Article {
		slug: String!
		title: String!
		description: String!
		body: String!
		favorited: Boolean!
		favoritesCount: Int!
		tagList: [String!]!
		author: User!
		createdAt: String!
		updatedAt: String!
	}

	type Comment {
		id: String!
		body: String!
		createdAt: String!
		updatedAt: String!
		author: User!
	}

	type UserPayload {
		user: User!
	}

	type ArticlePayload {
		article: Article!
	}

	type ArticlesPayload {
		articles: [Article!]!
		articlesCount: Int!
	}

	type CommentPayload {
		comment: Comment!
	}

	type CommentsPayload {
		comments: [Comment!]!
	}

	type TagPayload {
		tagList: [String!]!
	}

	type Success {
		message: String!
	}

	input InputUser {
		username: String
		email: String
		bio: String
		image: String
		password: String
	}

	input InputArticle {
		title: String
		description: String
		body: String
		tagList: [String!]
	}

	input InputComment {
		body: String!
	}
`
