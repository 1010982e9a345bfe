// Package docs holds the swagger spec served under /swagger. Regenerate with swag init -g cmd/api/main.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "API Support"
		},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/users/register": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Register a new user",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.RegisterRequest"
						}
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.User"
										}
									}
								}
							]
						},
						"description": "User Registered Successfully"
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Email already exists",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/users/login": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "User login",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.LoginResponse"
										}
									}
								}
							]
						},
						"description": "Login successful"
					},
					"401": {
						"description": "Invalid user credentials",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "User does not exist",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"429": {
						"description": "Too many attempts",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/users/logout": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "User logout",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "Logged out",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/auth/me": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Current user",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.CurrentUserResponse"
										}
									}
								}
							]
						},
						"description": "Current user"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/subjects": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"subjects"
				],
				"summary": "Add subject",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateSubjectRequest"
						}
					}
				],
				"responses": {
					"201": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Subject"
										}
									}
								}
							]
						},
						"description": "Subject added successfully"
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"403": {
						"description": "Admin access required",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Subject already exists",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"subjects"
				],
				"summary": "List subjects",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/models.Subject"
											}
										}
									}
								}
							]
						},
						"description": "Fetched"
					}
				}
			}
		},
		"/subjects/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"subjects"
				],
				"summary": "Get subject",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Subject ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Subject"
										}
									}
								}
							]
						},
						"description": "Fetched"
					},
					"400": {
						"description": "Invalid subject ID",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Subject not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"subjects"
				],
				"summary": "Delete subject",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Subject ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.DeletedResponse"
										}
									}
								}
							]
						},
						"description": "Deleted"
					},
					"404": {
						"description": "Subject not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Subject still in use",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/grades": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"grades"
				],
				"summary": "Add grade",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateGradeRequest"
						}
					}
				],
				"responses": {
					"201": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Grade"
										}
									}
								}
							]
						},
						"description": "Grade added successfully"
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"403": {
						"description": "Admin access required",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Grade already exists",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"grades"
				],
				"summary": "List grades",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/models.Grade"
											}
										}
									}
								}
							]
						},
						"description": "Fetched"
					}
				}
			}
		},
		"/grades/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"grades"
				],
				"summary": "Get grade",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Grade ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Grade"
										}
									}
								}
							]
						},
						"description": "Fetched"
					},
					"400": {
						"description": "Invalid grade ID",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Grade not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"grades"
				],
				"summary": "Delete grade",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Grade ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.DeletedResponse"
										}
									}
								}
							]
						},
						"description": "Deleted"
					},
					"404": {
						"description": "Grade not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Grade still in use",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/question-types": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"question-types"
				],
				"summary": "Add question type",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateQuestionTypeRequest"
						}
					}
				],
				"responses": {
					"201": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.QuestionType"
										}
									}
								}
							]
						},
						"description": "Question type added successfully"
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"403": {
						"description": "Admin access required",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Question type already exists",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"question-types"
				],
				"summary": "List question types",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/models.QuestionType"
											}
										}
									}
								}
							]
						},
						"description": "Fetched"
					}
				}
			}
		},
		"/question-types/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"question-types"
				],
				"summary": "Get question type",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Question type ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.QuestionType"
										}
									}
								}
							]
						},
						"description": "Fetched"
					},
					"400": {
						"description": "Invalid question type ID",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Question type not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"question-types"
				],
				"summary": "Delete question type",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Question type ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.DeletedResponse"
										}
									}
								}
							]
						},
						"description": "Deleted"
					},
					"404": {
						"description": "Question type not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Question type still in use",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/chapters": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"chapters"
				],
				"summary": "Add chapter",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateChapterRequest"
						}
					}
				],
				"responses": {
					"201": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Chapter"
										}
									}
								}
							]
						},
						"description": "Chapter added successfully"
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Referenced entity not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Chapter already exists",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"chapters"
				],
				"summary": "List chapters",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/models.Chapter"
											}
										}
									}
								}
							]
						},
						"description": "Chapters fetched successfully"
					}
				}
			}
		},
		"/chapters/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"chapters"
				],
				"summary": "Get chapter",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Chapter ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Chapter"
										}
									}
								}
							]
						},
						"description": "Chapter fetched successfully"
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Chapter not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"put": {
				"produces": [
					"application/json"
				],
				"tags": [
					"chapters"
				],
				"summary": "Update chapter",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Chapter ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.UpdateChapterRequest"
						}
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Chapter"
										}
									}
								}
							]
						},
						"description": "Chapter updated successfully"
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Chapter not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Chapter already exists",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"chapters"
				],
				"summary": "Delete chapter",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Chapter ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.DeletedResponse"
										}
									}
								}
							]
						},
						"description": "Chapter deleted successfully"
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Chapter not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/questions": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"questions"
				],
				"summary": "Add question",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateQuestionRequest"
						}
					}
				],
				"responses": {
					"201": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Question"
										}
									}
								}
							]
						},
						"description": "Question added successfully"
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Referenced entity not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Question already exists",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"questions"
				],
				"summary": "List questions",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Grade ID",
						"name": "grade",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Subject ID",
						"name": "subject",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Chapter ID",
						"name": "chapter",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Question type ID",
						"name": "questionType",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Page number",
						"name": "page",
						"in": "query",
						"default": 1
					},
					{
						"type": "integer",
						"description": "Page size",
						"name": "size",
						"in": "query",
						"default": 20
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"allOf": [
												{
													"$ref": "#/definitions/dto.PaginatedData"
												},
												{
													"type": "object",
													"properties": {
														"items": {
															"type": "array",
															"items": {
																"$ref": "#/definitions/models.Question"
															}
														}
													}
												}
											]
										}
									}
								}
							]
						},
						"description": "Questions fetched successfully"
					},
					"400": {
						"description": "Invalid filter ID",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/questions/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"questions"
				],
				"summary": "Get question",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Question ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Question"
										}
									}
								}
							]
						},
						"description": "Question fetched successfully"
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Question not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"put": {
				"produces": [
					"application/json"
				],
				"tags": [
					"questions"
				],
				"summary": "Update question",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Question ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.UpdateQuestionRequest"
						}
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Question"
										}
									}
								}
							]
						},
						"description": "Question updated successfully"
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Question not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"409": {
						"description": "Question already exists",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"questions"
				],
				"summary": "Delete question",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Question ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.DeletedResponse"
										}
									}
								}
							]
						},
						"description": "Question deleted successfully"
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					},
					"404": {
						"description": "Question not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		},
		"/chapters/filter": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"chapters"
				],
				"summary": "Filter chapters",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Grade id or name",
						"name": "grade",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Subject id or name",
						"name": "subject",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/models.Chapter"
											}
										}
									}
								}
							]
						},
						"description": "Chapters fetched successfully"
					},
					"404": {
						"description": "Grade or subject not found",
						"schema": {
							"$ref": "#/definitions/dto.APIResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"dto.APIResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"statusCode": {
					"type": "integer",
					"example": 200
				},
				"message": {
					"type": "string",
					"example": "OK"
				},
				"data": {},
				"stack": {
					"type": "string"
				}
			}
		},
		"dto.PaginationInfo": {
			"type": "object",
			"properties": {
				"currentPage": {
					"type": "integer",
					"example": 1
				},
				"totalPages": {
					"type": "integer",
					"example": 3
				},
				"pageSize": {
					"type": "integer",
					"example": 20
				},
				"totalItems": {
					"type": "integer",
					"example": 42
				}
			}
		},
		"dto.PaginatedData": {
			"type": "object",
			"properties": {
				"items": {},
				"pagination": {
					"$ref": "#/definitions/dto.PaginationInfo"
				}
			}
		},
		"dto.DeletedResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				}
			}
		},
		"dto.RegisterRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string",
					"example": "ada@school.edu"
				},
				"password": {
					"type": "string",
					"example": "secret123"
				},
				"firstName": {
					"type": "string",
					"example": "Ada"
				},
				"lastName": {
					"type": "string",
					"example": "Lovelace"
				},
				"role": {
					"type": "string",
					"enum": [
						"teacher",
						"student"
					]
				}
			},
			"required": [
				"email",
				"password"
			]
		},
		"dto.LoginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string",
					"example": "ada@school.edu"
				},
				"password": {
					"type": "string",
					"example": "secret123"
				}
			},
			"required": [
				"email",
				"password"
			]
		},
		"dto.LoginResponse": {
			"type": "object",
			"properties": {
				"user": {
					"$ref": "#/definitions/models.User"
				},
				"accessToken": {
					"type": "string"
				},
				"expiresIn": {
					"type": "integer",
					"example": 86400
				}
			}
		},
		"dto.CurrentUserResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"role": {
					"type": "string"
				}
			}
		},
		"dto.CreateSubjectRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"example": "Algebra"
				},
				"description": {
					"type": "string",
					"example": "Equations and functions"
				}
			},
			"required": [
				"name",
				"description"
			]
		},
		"dto.CreateQuestionTypeRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"example": "Multiple choice"
				},
				"description": {
					"type": "string",
					"example": "Pick one of four options"
				}
			},
			"required": [
				"name",
				"description"
			]
		},
		"dto.CreateGradeRequest": {
			"type": "object",
			"properties": {
				"grade": {
					"type": "string",
					"example": "10"
				},
				"name": {
					"type": "string"
				},
				"subjects": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			},
			"required": [
				"subjects"
			]
		},
		"dto.CreateChapterRequest": {
			"type": "object",
			"properties": {
				"grade": {
					"type": "string",
					"example": "10"
				},
				"subject": {
					"type": "string",
					"example": "Algebra"
				},
				"chapterName": {
					"type": "string",
					"example": "Functions"
				},
				"bookName": {
					"type": "string",
					"example": "Algebra I"
				}
			},
			"required": [
				"grade",
				"subject",
				"chapterName"
			]
		},
		"dto.UpdateChapterRequest": {
			"type": "object",
			"properties": {
				"grade": {
					"type": "string"
				},
				"subject": {
					"type": "string"
				},
				"chapterName": {
					"type": "string"
				},
				"bookName": {
					"type": "string"
				}
			}
		},
		"dto.CreateQuestionRequest": {
			"type": "object",
			"properties": {
				"question": {
					"type": "string",
					"example": "Solve x + 2 = 5"
				},
				"answer": {
					"type": "string",
					"example": "x = 3"
				},
				"grade": {
					"type": "string"
				},
				"subject": {
					"type": "string"
				},
				"chapter": {
					"type": "string"
				},
				"questionType": {
					"type": "string"
				},
				"description": {
					"type": "string"
				}
			},
			"required": [
				"question",
				"grade",
				"subject",
				"chapter",
				"questionType",
				"description"
			]
		},
		"dto.UpdateQuestionRequest": {
			"type": "object",
			"properties": {
				"question": {
					"type": "string"
				},
				"answer": {
					"type": "string"
				},
				"grade": {
					"type": "string"
				},
				"subject": {
					"type": "string"
				},
				"chapter": {
					"type": "string"
				},
				"questionType": {
					"type": "string"
				},
				"description": {
					"type": "string"
				}
			}
		},
		"models.User": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"role": {
					"type": "string",
					"example": "teacher"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"models.UserSummary": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"role": {
					"type": "string"
				}
			}
		},
		"models.Subject": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string",
					"example": "Algebra"
				},
				"description": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"models.QuestionType": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string",
					"example": "Multiple choice"
				},
				"description": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"models.Grade": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string",
					"example": "10"
				},
				"subjects": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.Subject"
					}
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"models.Chapter": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"gradeId": {
					"type": "string"
				},
				"subjectId": {
					"type": "string"
				},
				"createdById": {
					"type": "string"
				},
				"grade": {
					"$ref": "#/definitions/models.Grade"
				},
				"subject": {
					"$ref": "#/definitions/models.Subject"
				},
				"chapterName": {
					"type": "string",
					"example": "Functions"
				},
				"bookName": {
					"type": "string"
				},
				"createdBy": {
					"$ref": "#/definitions/models.UserSummary"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"models.Question": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"gradeId": {
					"type": "string"
				},
				"subjectId": {
					"type": "string"
				},
				"chapterId": {
					"type": "string"
				},
				"questionTypeId": {
					"type": "string"
				},
				"createdById": {
					"type": "string"
				},
				"question": {
					"type": "string"
				},
				"answer": {
					"type": "string"
				},
				"grade": {
					"$ref": "#/definitions/models.Grade"
				},
				"subject": {
					"$ref": "#/definitions/models.Subject"
				},
				"chapter": {
					"$ref": "#/definitions/models.Chapter"
				},
				"questionType": {
					"$ref": "#/definitions/models.QuestionType"
				},
				"description": {
					"type": "string"
				},
				"createdBy": {
					"$ref": "#/definitions/models.UserSummary"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "JWT token for authorization",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Question Bank API",
	Description:      "API for managing subjects, grades, chapters and questions",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
