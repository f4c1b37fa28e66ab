package engine

// sampleAtomFeed is a sample YouTube channel feed with two entries.
const sampleAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
  <link rel="self" href="http://www.youtube.com/feeds/videos.xml?channel_id=UC123"/>
  <id>yt:channel:UC123</id>
  <yt:channelId>UC123</yt:channelId>
  <title>Test Channel</title>
  <link rel="alternate" href="https://www.youtube.com/channel/UC123"/>
  <author>
    <name>Test Uploader</name>
    <uri>https://www.youtube.com/channel/UC123</uri>
  </author>
  <published>2019-03-01T10:00:00+00:00</published>
  <updated>2024-05-02T09:30:00+00:00</updated>
  <entry>
    <id>yt:video:dQw4w9WgXcQ</id>
    <yt:videoId>dQw4w9WgXcQ</yt:videoId>
    <yt:channelId>UC123</yt:channelId>
    <title>Video 1</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=dQw4w9WgXcQ"/>
    <author>
      <name>Test Uploader</name>
      <uri>https://www.youtube.com/channel/UC123</uri>
    </author>
    <published>2024-05-01T12:00:00+00:00</published>
    <updated>2024-05-02T08:00:00+00:00</updated>
    <media:group>
      <media:title>Video 1</media:title>
      <media:content url="https://www.youtube.com/v/dQw4w9WgXcQ?version=3" type="application/x-shockwave-flash" width="640" height="390"/>
      <media:thumbnail url="https://i1.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" width="480" height="360"/>
      <media:description>
        First video description.
      </media:description>
      <media:community>
        <media:starRating count="10" average="5.00" min="1" max="5"/>
        <media:statistics views="1000"/>
      </media:community>
    </media:group>
  </entry>
  <entry>
    <id>yt:video:xQw4w9WgXcZ</id>
    <yt:videoId>xQw4w9WgXcZ</yt:videoId>
    <yt:channelId>UC123</yt:channelId>
    <title>Video 2</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=xQw4w9WgXcZ"/>
    <published>2024-04-20T12:00:00+00:00</published>
    <updated>2024-04-21T08:00:00+00:00</updated>
    <media:group>
      <media:title>Video 2</media:title>
      <media:thumbnail url="https://i2.ytimg.com/vi/xQw4w9WgXcZ/hqdefault.jpg" width="480" height="360"/>
      <media:description>Second video description.</media:description>
    </media:group>
  </entry>
</feed>`

// sampleSparseAtomFeed has an entry missing every optional element.
const sampleSparseAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
  <title>Sparse</title>
  <entry>
    <yt:videoId>sparse00001</yt:videoId>
    <title>No media</title>
    <link rel="self" href="https://example.com/self"/>
  </entry>
  <entry>
    <media:group>
      <media:thumbnail width="480"/>
    </media:group>
  </entry>
</feed>`

// sampleEmptyAtomFeed is a feed with no entries.
const sampleEmptyAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Empty Channel</title>
</feed>`

// sampleOEmbed is a trimmed oEmbed payload as returned by youtube.com/oembed.
const sampleOEmbed = `{"title":"Video 1","author_name":"Test Uploader","author_url":"https://www.youtube.com/@test","type":"video","height":113,"width":200,"version":"1.0","provider_name":"YouTube","provider_url":"https://www.youtube.com/","thumbnail_height":360,"thumbnail_width":480,"thumbnail_url":"https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg","html":"<iframe width=\"200\" height=\"113\" src=\"https://www.youtube.com/embed/dQw4w9WgXcQ?feature=oembed\"></iframe>"}`
